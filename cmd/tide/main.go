// cmd/tide/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/bethropolis/tide/internal/buffer"
	"github.com/bethropolis/tide/internal/config"
	"github.com/bethropolis/tide/internal/core"
	"github.com/bethropolis/tide/internal/logger"
	"github.com/bethropolis/tide/internal/search"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

var (
	filePathArg    string
	patternFlag    string
	regexFlag      bool
	replaceFlag    string
	replaceAllFlag bool
)

const previewWidth = 72

func main() {
	flags := &config.Flags{}
	flags.DefineFlags()
	flag.StringVar(&patternFlag, "pattern", "", "Search pattern to scan the file for")
	flag.BoolVar(&regexFlag, "regex", false, "Treat -pattern as a regular expression")
	flag.StringVar(&replaceFlag, "replace", "", "Replace the first match with this text (on its line) instead of browsing matches")
	flag.BoolVar(&replaceAllFlag, "replace-all", false, "With -replace, replace every occurrence on the matched line")

	flag.Parse()
	if flag.NArg() > 0 {
		filePathArg = flag.Arg(0)
	}

	// LoadConfig does no logging of its own during the initial load, so it's
	// safe to call before the logger is initialized; its result seeds it.
	cfg, err := config.LoadConfig("", flags)
	if flags.DebugLog != nil {
		logger.EnableFilterDebug(*flags.DebugLog)
	}
	logger.Init(cfg.Logger)
	if err != nil {
		logger.Warnf("Error loading configuration: %v", err)
	}

	logger.Infof("Starting tide search CLI...")

	if filePathArg == "" {
		fmt.Fprintln(os.Stderr, "usage: tide -pattern <text> <file>")
		os.Exit(2)
	}

	buf := buffer.NewSliceBuffer()
	if err := buf.Load(filePathArg); err != nil {
		logger.Errorf("Error loading file '%s': %v", filePathArg, err)
		os.Exit(1)
	}

	searchCache := search.NewDocumentCache()
	editor := core.NewEditor(buf, searchCache)

	if patternFlag == "" {
		fmt.Printf("Loaded %s (%d lines). Pass -pattern to search.\n", filePathArg, buf.LineCount())
		return
	}

	// find.Manager.HighlightMatches always compiles its term as a regex;
	// a literal -pattern is escaped here so -regex's meaning is honored
	// at the CLI boundary without widening the manager's own contract.
	term := patternFlag
	if !regexFlag {
		term = regexp.QuoteMeta(patternFlag)
	}

	if err := editor.HighlightMatches(term); err != nil {
		logger.Errorf("Invalid search pattern %q: %v", patternFlag, err)
		os.Exit(1)
	}

	count, err := editor.MatchCount()
	if err != nil {
		logger.Errorf("Search failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("%d match(es) for %q in %s\n", count, patternFlag, filePathArg)
	if count == 0 {
		return
	}

	if replaceFlag != "" {
		runReplace(editor, filePathArg, patternFlag, term)
		return
	}

	if err := runMinimapScreen(editor, count); err != nil {
		logger.Errorf("Minimap display failed: %v", err)
		os.Exit(1)
	}

	logger.Infof("tide search CLI finished.")
}

// runReplace moves the cursor to the first match found by the search
// already seeded on editor, then performs the substitution on that
// match's line through editor.Replace.
func runReplace(editor *core.Editor, filePathArg, displayPattern, term string) {
	if _, found, _ := editor.FindNextMatch(true); !found {
		fmt.Printf("no match to replace for %q\n", displayPattern)
		return
	}

	n, err := editor.Replace(term, replaceFlag, replaceAllFlag)
	if err != nil {
		logger.Errorf("Replace failed: %v", err)
		os.Exit(1)
	}

	if err := editor.SaveBuffer(filePathArg); err != nil {
		logger.Errorf("Saving %s failed: %v", filePathArg, err)
		os.Exit(1)
	}

	fmt.Printf("replaced %d occurrence(s) on the matched line, saved %s\n", n, filePathArg)
}

// runMinimapScreen opens a terminal screen showing a bucketed overview
// of match density down the left gutter alongside a preview of each
// matched line, advancing through matches with 'n'/'N' and quitting on
// 'q' or Escape. Navigation and match lookup are driven entirely through
// editor's find-manager accessors, not a standalone search.SearchCursor.
func runMinimapScreen(editor *core.Editor, total int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen.Init: %w", err)
	}
	defer screen.Fini()

	_, height := screen.Size()
	pattern, err := editor.MatchedLinePattern(height)
	if err != nil {
		return err
	}

	draw := func() {
		screen.Clear()
		drawMinimapGutter(screen, pattern)

		buf := editor.GetBuffer()
		matchNum := editor.CurrentMatchNumber()
		info, ok, _ := editor.CurrentMatchInfo()
		statusLine := fmt.Sprintf("match %d/%d  (n: next, N: prev, q: quit)", matchNum+1, total)
		drawText(screen, 2, 0, statusLine, tcell.StyleDefault.Bold(true))

		if ok {
			lineBytes, err := buf.Line(info.Range.From.Line)
			preview := ""
			if err == nil {
				preview = truncateGraphemes(string(lineBytes), previewWidth)
			}
			drawText(screen, 2, 1, fmt.Sprintf("%d: %s", info.Range.From.Line+1, preview), tcell.StyleDefault)
		}

		screen.Show()
	}

	if _, found, _ := editor.FindNextMatch(true); !found {
		return nil
	}
	draw()

	for {
		ev := screen.PollEvent()
		switch e := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			draw()
		case *tcell.EventKey:
			switch {
			case e.Key() == tcell.KeyEscape, e.Rune() == 'q':
				return nil
			case e.Rune() == 'n':
				if _, found, _ := editor.FindNextMatch(true); found {
					draw()
				}
			case e.Rune() == 'N':
				if _, found, _ := editor.FindNextMatch(false); found {
					draw()
				}
			}
		}
	}
}

// drawMinimapGutter renders pattern as a column of '#'/'.' cells along
// the left edge, one cell per bucket.
func drawMinimapGutter(screen tcell.Screen, pattern search.LinePattern) {
	for row, bucket := range pattern.Buckets {
		ch := '.'
		style := tcell.StyleDefault.Foreground(tcell.ColorGray)
		if bucket != 0 {
			ch = '#'
			style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
		}
		screen.SetContent(0, row, ch, nil, style)
	}
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}

// truncateGraphemes truncates s to at most width grapheme clusters,
// appending an ellipsis if anything was cut — a plain rune count would
// split multi-rune clusters (combining marks, emoji) mid-grapheme.
func truncateGraphemes(s string, width int) string {
	if uniseg.GraphemeClusterCount(s) <= width {
		return s
	}

	var b strings.Builder
	gr := uniseg.NewGraphemes(s)
	count := 0
	for gr.Next() && count < width-1 {
		b.WriteString(gr.Str())
		count++
	}
	b.WriteRune('…')
	return b.String()
}
