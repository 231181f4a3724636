package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// Manager abstracts input from and output to the operator's terminal.
// The rendering layer (cursor movement, colored text) stays behind this
// interface so command handlers never touch the terminal directly.
type Manager interface {
	// ReadInputLine blocks until the operator submits one line.
	ReadInputLine() string

	// HasInputReady reports whether a submitted line is waiting. Useful
	// for detecting that the operator hit enter to stop a continuously
	// refreshing command.
	HasInputReady() bool

	// ClearWaitingInput discards any submitted lines not yet read, so
	// input entered during a refresh loop cannot leak into later reads.
	ClearWaitingInput()

	// MoveUp moves the cursor up the given number of rows, to column one.
	MoveUp(lines int)

	// ClearLine erases the current row.
	ClearLine()

	// SaveCursorPos remembers the cursor position for RestoreCursorPos.
	SaveCursorPos()

	// RestoreCursorPos moves the cursor back to the last saved position.
	RestoreCursorPos()

	// Print writes normal text, no trailing newline.
	Print(msg string)

	// PrintErr writes error-colored text, no trailing newline.
	PrintErr(msg string)

	// PrintSys writes system-colored (highlighted) text, no newline.
	PrintSys(msg string)

	// Flush forces buffered output to the terminal.
	Flush()

	// Clear erases all terminal output.
	Clear()
}

// Println writes msg plus a newline as normal text.
func Println(m Manager, msg string) { m.Print(msg + "\n") }

// PrintlnErr writes msg plus a newline as error text.
func PrintlnErr(m Manager, msg string) { m.PrintErr(msg + "\n") }

// PrintlnSys writes msg plus a newline as system text.
func PrintlnSys(m Manager, msg string) { m.PrintSys(msg + "\n") }

const (
	ansiReset     = "\x1b[0m"
	ansiRed       = "\x1b[31m"
	ansiYellow    = "\x1b[33m"
	ansiClearLine = "\x1b[2K\r"
	ansiClearAll  = "\x1b[2J\x1b[H"
)

// ansiManager renders to an ANSI terminal. A pump goroutine moves stdin
// lines into a buffered channel so HasInputReady never blocks.
type ansiManager struct {
	out   *bufio.Writer
	lines chan string
	eof   atomic.Bool
}

// NewANSIManager creates a Manager over the given reader and writer,
// normally os.Stdin and os.Stdout.
func NewANSIManager(in io.Reader, out io.Writer) Manager {
	m := &ansiManager{
		out:   bufio.NewWriter(out),
		lines: make(chan string, 16),
	}
	go m.pump(in)
	return m
}

func (m *ansiManager) pump(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		m.lines <- strings.TrimRight(scanner.Text(), "\r")
	}
	m.eof.Store(true)
	close(m.lines)
}

func (m *ansiManager) ReadInputLine() string {
	line, ok := <-m.lines
	if !ok {
		// stdin closed; behave like the operator asked to leave
		return "exit"
	}
	return line
}

// HasInputReady also reports true once stdin has closed, so refresh
// loops that wait on the operator still terminate.
func (m *ansiManager) HasInputReady() bool {
	return len(m.lines) > 0 || m.eof.Load()
}

func (m *ansiManager) ClearWaitingInput() {
	for {
		select {
		case _, ok := <-m.lines:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (m *ansiManager) MoveUp(lines int) {
	fmt.Fprintf(m.out, "\x1b[%dA\r", lines)
}

func (m *ansiManager) ClearLine() {
	m.out.WriteString(ansiClearLine)
}

func (m *ansiManager) SaveCursorPos() {
	m.out.WriteString("\x1b[s")
}

func (m *ansiManager) RestoreCursorPos() {
	m.out.WriteString("\x1b[u")
}

func (m *ansiManager) Print(msg string) {
	m.out.WriteString(msg)
	m.Flush()
}

func (m *ansiManager) PrintErr(msg string) {
	m.out.WriteString(ansiRed + msg + ansiReset)
	m.Flush()
}

func (m *ansiManager) PrintSys(msg string) {
	m.out.WriteString(ansiYellow + msg + ansiReset)
	m.Flush()
}

func (m *ansiManager) Flush() {
	m.out.Flush()
}

func (m *ansiManager) Clear() {
	m.out.WriteString(ansiClearAll)
	m.Flush()
}

var _ Manager = (*ansiManager)(nil)
