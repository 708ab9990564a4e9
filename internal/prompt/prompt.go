package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// ErrInputUnavailable is returned when standard input is closed or
// unreadable. Callers must treat it as a decline — a dead terminal is
// never consent for a destructive action.
var ErrInputUnavailable = errors.New("standard input unavailable")

// Item is a candidate for a destructive action, shown to the user
// before anything is executed.
type Item struct {
	Name    string
	Detail  string // optional, e.g. package version or file path
	Size    int64  // bytes, 0 when unknown
	AgeDays int    // 0 when not applicable
}

var (
	questionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	indexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Gate prompts for yes/no confirmation or list selection before any
// destructive operation runs. Reads are synchronous and blocking.
type Gate struct {
	in  *bufio.Reader
	out io.Writer
}

// New returns a Gate bound to the process terminal.
func New() *Gate {
	return NewWithIO(os.Stdin, os.Stdout)
}

// NewWithIO returns a Gate reading from in and writing prompts to out.
func NewWithIO(in io.Reader, out io.Writer) *Gate {
	return &Gate{in: bufio.NewReader(in), out: out}
}

// Confirm asks a yes/no question and loops until it gets a recognized
// answer. Unrecognized input re-prompts; it never counts as a decision.
func (g *Gate) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(g.out, "%s %s ", questionStyle.Render(question), hintStyle.Render("[y/n]:"))
		line, err := g.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(g.out, `Please answer "y" or "n".`)
	}
}

// Select presents items with stable 1-based indices and reads an index
// set ("1,3"), "all", or "none". Out-of-range or non-numeric input
// re-prompts. Duplicate indices collapse. The returned subset keeps
// list order; an empty selection is valid.
func (g *Gate) Select(question string, items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, nil
	}

	for i, it := range items {
		fmt.Fprintf(g.out, "  %s %s\n", indexStyle.Render(fmt.Sprintf("%3d)", i+1)), formatItem(it))
	}

	hint := hintStyle.Render(`(indices like "1,3", or "all" / "none"):`)
	for {
		fmt.Fprintf(g.out, "%s %s ", questionStyle.Render(question), hint)
		line, err := g.readLine()
		if err != nil {
			return nil, err
		}
		chosen, perr := parseSelection(line, len(items))
		if perr != nil {
			fmt.Fprintln(g.out, perr.Error())
			continue
		}
		selected := make([]Item, 0, len(chosen))
		for i, it := range items {
			if chosen[i+1] {
				selected = append(selected, it)
			}
		}
		return selected, nil
	}
}

// readLine reads one line of user input. A final line without a
// trailing newline still counts; a bare EOF does not.
func (g *Gate) readLine() (string, error) {
	line, err := g.in.ReadString('\n')
	if err != nil {
		if line != "" && errors.Is(err, io.EOF) {
			return line, nil
		}
		return "", fmt.Errorf("%w: %v", ErrInputUnavailable, err)
	}
	return line, nil
}

// parseSelection turns user input into a set of 1-based indices.
func parseSelection(line string, n int) (map[int]bool, error) {
	chosen := make(map[int]bool)

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "none":
		return chosen, nil
	case "all":
		for i := 1; i <= n; i++ {
			chosen[i] = true
		}
		return chosen, nil
	}

	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	for _, tok := range tokens {
		idx, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%q is not an index, \"all\", or \"none\"", tok)
		}
		if idx < 1 || idx > n {
			return nil, fmt.Errorf("index %d is out of range (1-%d)", idx, n)
		}
		chosen[idx] = true
	}
	return chosen, nil
}

func formatItem(it Item) string {
	s := it.Name
	if it.Detail != "" {
		s += "  " + hintStyle.Render(it.Detail)
	}
	var meta []string
	if it.Size > 0 {
		meta = append(meta, humanize.IBytes(uint64(it.Size)))
	}
	if it.AgeDays > 0 {
		meta = append(meta, fmt.Sprintf("%dd old", it.AgeDays))
	}
	if len(meta) > 0 {
		s += "  " + hintStyle.Render("["+strings.Join(meta, ", ")+"]")
	}
	return s
}
