// Package cli is the terminal rendering of the team page: styled notifications, redirects, and the
// session token kept between invocations.
package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/verrloren/hackathon-evrz/internal/team/domain"
	"github.com/verrloren/hackathon-evrz/internal/ui"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	redirectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Printer writes notifications and redirects to a terminal. It implements ui.Notifier and ui.Navigator.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
	// failed is set by any error notification.
	failed bool
	// redirected holds the last navigation target.
	redirected string
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Notify prints a styled message.
func (p *Printer) Notify(kind ui.Kind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch kind {
	case ui.Error:
		p.failed = true
		fmt.Fprintln(p.out, errorStyle.Render("✗ "+message))
	default:
		fmt.Fprintln(p.out, successStyle.Render("✓ "+message))
	}
}

// Navigate prints where the viewer is being sent.
func (p *Printer) Navigate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.redirected = path
	hint := ""
	if path == ui.LoginPath {
		hint = " (run `teamctl login`)"
	}
	fmt.Fprintln(p.out, redirectStyle.Render("→ "+path+hint))
}

// Failed reports whether an error was shown.
func (p *Printer) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Redirected returns the last navigation target, or "".
func (p *Printer) Redirected() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redirected
}

// FieldErrors prints per-field validation messages in key order.
func (p *Printer) FieldErrors(fields map[string]string) {
	if len(fields) == 0 {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range keys {
		fmt.Fprintln(p.out, mutedStyle.Render("  "+k+": "+fields[k]))
	}
}

// Team prints the title and roster.
func (p *Printer) Team(title string, roster []domain.Member) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, titleStyle.Render(title))
	if len(roster) == 0 {
		fmt.Fprintln(p.out, mutedStyle.Render("  no members yet"))
		return
	}
	for _, m := range roster {
		line := "  " + m.Name
		if len(m.Cards) > 0 {
			names := make([]string, len(m.Cards))
			for i, c := range m.Cards {
				names[i] = c.Name
			}
			line += mutedStyle.Render(" [" + strings.Join(names, ", ") + "]")
		}
		fmt.Fprintln(p.out, line)
	}
}

// Line prints plain text.
func (p *Printer) Line(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, text)
}
