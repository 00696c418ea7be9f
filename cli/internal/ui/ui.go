package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/satishbabariya/sqlforge/runtime/dao"
	"github.com/satishbabariya/sqlforge/runtime/types"
)

var (
	// Colors
	PrimaryColor   = lipgloss.Color("#00D9FF")
	SuccessColor   = lipgloss.Color("#00FF88")
	WarningColor   = lipgloss.Color("#FFB800")
	ErrorColor     = lipgloss.Color("#FF4444")
	SecondaryColor = lipgloss.Color("#6C757D")

	// Styles
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SecondaryStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)
)

// NullText is how NULL cells are displayed.
const NullText = "NULL"

// PrintHeader prints a boxed title.
func PrintHeader(w io.Writer, title, subtitle string) {
	header := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), SecondaryStyle.Render(subtitle)))
	fmt.Fprintln(w, header)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SuccessStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

// PrintError prints an error message to stderr
func PrintError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

// PrintWarning prints a warning message
func PrintWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, WarningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// PrintInfo prints a dimmed informational line.
func PrintInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SecondaryStyle.Render(fmt.Sprintf(format, args...)))
}

// Cell formats a value for display.
func Cell(v types.Value) string {
	if v.IsNull() {
		return NullText
	}
	if v.Kind() == types.KindBlob {
		b, _ := types.From[[]byte](v)
		return fmt.Sprintf("<%d bytes>", len(b))
	}
	return v.String()
}

// TableData converts rows into a header line followed by one line per row.
// Columns are taken from the first row; later rows missing one show NULL.
func TableData(rows []*dao.Dao) [][]string {
	if len(rows) == 0 {
		return nil
	}
	headers := rows[0].Columns()
	data := make([][]string, 0, len(rows)+1)
	data = append(data, headers)
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, c := range headers {
			v, _ := row.Value(c)
			line[i] = Cell(v)
		}
		data = append(data, line)
	}
	return data
}

// PrintRows renders rows as a table followed by a row count.
func PrintRows(w io.Writer, rows []*dao.Dao) error {
	if len(rows) == 0 {
		PrintInfo(w, "(0 rows)")
		return nil
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(TableData(rows)).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	PrintInfo(w, "(%d rows)", len(rows))
	return nil
}

// PrintAffected reports the number of rows a statement changed.
func PrintAffected(w io.Writer, n int64) {
	color.New(color.FgGreen, color.Bold).Fprintf(w, "%d row(s) affected\n", n)
}

// PrintParams lists bound parameters as $n = value.
func PrintParams(w io.Writer, params []types.Value) {
	label := color.New(color.FgCyan)
	for i, p := range params {
		label.Fprintf(w, "  $%d", i+1)
		fmt.Fprintf(w, " = %s (%s)\n", Cell(p), p.Kind())
	}
}

// PrintSQL renders a statement as a highlighted markdown code block. Output
// falls back to plain text when the renderer cannot be built.
func PrintSQL(w io.Writer, sql string) {
	md := "```sql\n" + strings.TrimSpace(sql) + "\n```\n"
	if err := PrintMarkdown(w, md); err != nil {
		fmt.Fprintln(w, sql)
	}
}

// PrintMarkdown renders markdown content
func PrintMarkdown(w io.Writer, content string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(content)
	if err != nil {
		return err
	}
	fmt.Fprint(w, out)
	return nil
}

// Spinner starts a spinner with the given message.
func Spinner(message string) *pterm.SpinnerPrinter {
	s, err := pterm.DefaultSpinner.WithRemoveWhenDone().Start(message)
	if err != nil {
		return nil
	}
	return s
}

// StopSpinner stops s, tolerating a spinner that failed to start.
func StopSpinner(s *pterm.SpinnerPrinter) {
	if s != nil {
		_ = s.Stop()
	}
}
