package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lgbarn/repertoire-go/internal/config"
	"github.com/lgbarn/repertoire-go/internal/eco"
	"github.com/lgbarn/repertoire-go/internal/matching"
	"github.com/lgbarn/repertoire-go/internal/output"
	"github.com/lgbarn/repertoire-go/internal/parser"
	"github.com/lgbarn/repertoire-go/internal/processing"
	"github.com/lgbarn/repertoire-go/internal/trainer"
	"github.com/lgbarn/repertoire-go/internal/tree"
)

// collectLines gathers the line given with -line and the lines of each
// file. With neither, lines are read from stdin.
func collectLines(flagLine string, files []string, stdin io.Reader) ([][]tree.PathMove, error) {
	var lines [][]tree.PathMove
	if flagLine != "" {
		if *pgnInput {
			l, err := parser.ParseLines(strings.NewReader(flagLine), *fen)
			if err != nil {
				return nil, fmt.Errorf("-line: %w", err)
			}
			lines = append(lines, l...)
		} else {
			l, err := tree.ParseLine(flagLine)
			if err != nil {
				return nil, fmt.Errorf("-line: %w", err)
			}
			lines = append(lines, l)
		}
	}

	for _, name := range files {
		f, err := os.Open(name) //nolint:gosec // G304: reading user-specified input files is intended
		if err != nil {
			return nil, err
		}
		fileLines, err := readLines(f, name)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		lines = append(lines, fileLines...)
	}

	if flagLine == "" && len(files) == 0 {
		return readLines(stdin, "stdin")
	}
	return lines, nil
}

// readLines reads one line of coordinate moves per row. Blank rows and rows
// starting with '#' are skipped. With -pgn the input is PGN instead.
func readLines(r io.Reader, name string) ([][]tree.PathMove, error) {
	if *pgnInput {
		lines, err := parser.ParseLines(r, *fen)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return lines, nil
	}

	var lines [][]tree.PathMove
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		l, err := tree.ParseLine(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, n, err)
		}
		lines = append(lines, l)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return lines, nil
}

// runOffline replays lines and writes the result selected by the flags. It
// returns the process exit code.
func runOffline(cfg *config.Config, lines [][]tree.PathMove, stdout, stderr io.Writer) int {
	if *checkOnly {
		return reportValidation(processing.ValidateLines(*fen, lines), len(lines), stdout, stderr)
	}

	t, err := newTree(*fen, treeOptions(cfg))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	last, err := t.Replay(lines)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case selectingLines():
		err = writeSelectedLines(cfg, t, stdout)
	case *stats:
		err = writeStats(processing.AnalyzeTree(t), cfg.Output.JSONFormat, stdout)
	case *records:
		err = output.OutputRecordsJSON(t, last, stdout)
	case *hashes:
		err = writeHashes(t, stdout)
	default:
		err = output.NewTreeWriter(stdout, cfg.Output).WriteTree(t)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newTree(fen string, opts []tree.Option) (*tree.Tree, error) {
	if fen == "" {
		return tree.New(opts...), nil
	}
	return tree.NewFromFEN(fen, opts...)
}

func reportValidation(res *processing.ValidationResult, count int, stdout, stderr io.Writer) int {
	if !res.Valid {
		if res.ErrorLine > 0 {
			fmt.Fprintf(stderr, "line %d, ply %d: %s\n", res.ErrorLine, res.ErrorPly, res.ErrorMsg)
		} else {
			fmt.Fprintf(stderr, "%s\n", res.ErrorMsg)
		}
		return 1
	}
	fmt.Fprintf(stdout, "%d line(s) valid.\n", count)
	return 0
}

func writeStats(a *processing.TreeAnalysis, asJSON bool, w io.Writer) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	}
	_, err := fmt.Fprintf(w,
		"%d node(s), %d line(s), depth %d.\n"+
			"%d check(s), %d checkmate(s), %d castle(s), %d promotion(s) (%d under), %d transposition(s).\n",
		a.Nodes, a.Lines, a.MaxDepth,
		a.Checks, a.Checkmates, a.Castles, a.Promotions, a.Underpromotions, a.Transpositions)
	return err
}

// lineMatcher builds the matcher for -match, -variations and -material.
func lineMatcher() (matching.LineMatcher, error) {
	all := matching.NewCompositeMatcher(matching.MatchAll)
	if *matchMoves != "" {
		vm := matching.NewVariationMatcher()
		vm.AddMoveSequence(matching.ParseMoveSequence(*matchMoves))
		all.Add(vm)
	}
	if *variationFile != "" {
		vm := matching.NewVariationMatcher()
		if err := vm.LoadFromFile(*variationFile); err != nil {
			return nil, err
		}
		all.Add(vm)
	}
	if *material != "" {
		mm, err := matching.NewMaterialMatcher(*material, *exactMaterial)
		if err != nil {
			return nil, err
		}
		all.Add(mm)
	}
	return all, nil
}

// writeSelectedLines writes every matching line, preceded by its opening
// when -eco is set.
func writeSelectedLines(cfg *config.Config, t *tree.Tree, w io.Writer) error {
	m, err := lineMatcher()
	if err != nil {
		return err
	}
	var openings *eco.Classifier
	if *ecoReport {
		if openings, err = loadClassifier(cfg.Notation); err != nil {
			return err
		}
	}
	ids := matching.FindLines(t, m)

	if cfg.Output.JSONFormat {
		views := make([]trainer.LineView, 0, len(ids))
		for _, id := range ids {
			sans, err := lineSAN(t, id)
			if err != nil {
				return err
			}
			lv := trainer.LineView{ID: t.MoveHash(id), Line: sans}
			if openings != nil {
				lv.Opening = openings.Classify(t, id)
			}
			views = append(views, lv)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	for _, id := range ids {
		if openings != nil {
			name := "unclassified"
			if e := openings.Classify(t, id); e != nil {
				name = e.Code + " " + e.Name()
			}
			if _, err := fmt.Fprintf(w, "[%s]\n", name); err != nil {
				return err
			}
		}
		if err := output.OutputLine(t, id, cfg.Output, w); err != nil {
			return err
		}
	}
	return nil
}

func lineSAN(t *tree.Tree, id tree.NodeID) ([]string, error) {
	sans := make([]string, 0)
	for _, mid := range t.AllMoves(id) {
		san, err := t.Notation(mid)
		if err != nil {
			return nil, err
		}
		sans = append(sans, san)
	}
	return sans, nil
}

// writeHashes writes the content hash of every node with its line in SAN.
func writeHashes(t *tree.Tree, w io.Writer) error {
	for id := tree.RootID; int(id) < t.Len(); id++ {
		sans, err := lineSAN(t, id)
		if err != nil {
			return err
		}
		label := strings.Join(sans, " ")
		if label == "" {
			label = "(root)"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", t.MoveHash(id), label); err != nil {
			return err
		}
	}
	return nil
}
