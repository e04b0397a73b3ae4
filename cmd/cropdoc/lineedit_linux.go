//go:build linux

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

var consoleHistory []string

func stdinIsTTY() bool {
	_, err := unix.IoctlGetTermios(int(os.Stdin.Fd()), unix.TCGETS)
	return err == nil
}

// readInteractiveLine reads one line with basic editing: cursor movement,
// backspace, delete and up/down input history. Falls back to buffered reads
// when stdin is not a terminal.
func readInteractiveLine(prompt string) (string, error) {
	if !stdinIsTTY() {
		return readPlainLine(prompt)
	}

	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return "", err
	}
	rawState := *oldState
	rawState.Lflag &^= unix.ICANON | unix.ECHO
	rawState.Cc[unix.VMIN] = 1
	rawState.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &rawState); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, oldState)
	}()

	fmt.Print(prompt)
	line := make([]byte, 0, 128)
	cursor := 0
	histPos := len(consoleHistory)
	draft := ""

	redraw := func() {
		fmt.Printf("\r%s%s\x1b[K", prompt, string(line))
		if cursor < len(line) {
			fmt.Printf("\r%s%s", prompt, string(line[:cursor]))
		}
	}

	var buf [8]byte
	var esc strings.Builder
	escState := 0
	for {
		n, err := os.Stdin.Read(buf[:])
		if err != nil {
			return "", err
		}
		for i := 0; i < n; i++ {
			b := buf[i]
			if escState == 1 {
				if b == '[' {
					escState = 2
					esc.Reset()
				} else {
					escState = 0
				}
				continue
			}
			if escState == 2 {
				esc.WriteByte(b)
				if (b >= 'A' && b <= 'Z') || b == '~' {
					switch esc.String() {
					case "A": // up
						if histPos > 0 {
							if histPos == len(consoleHistory) {
								draft = string(line)
							}
							histPos--
							line = append(line[:0], consoleHistory[histPos]...)
							cursor = len(line)
							redraw()
						}
					case "B": // down
						if histPos < len(consoleHistory) {
							histPos++
							if histPos == len(consoleHistory) {
								line = append(line[:0], draft...)
							} else {
								line = append(line[:0], consoleHistory[histPos]...)
							}
							cursor = len(line)
							redraw()
						}
					case "C": // right
						if cursor < len(line) {
							cursor++
							redraw()
						}
					case "D": // left
						if cursor > 0 {
							cursor--
							redraw()
						}
					case "3~": // delete
						if cursor < len(line) {
							line = append(line[:cursor], line[cursor+1:]...)
							redraw()
						}
					}
					escState = 0
				}
				continue
			}

			switch b {
			case 27: // ESC
				escState = 1
			case '\r', '\n':
				fmt.Print("\r\n")
				out := string(line)
				if strings.TrimSpace(out) != "" {
					consoleHistory = append(consoleHistory, out)
				}
				return out, nil
			case 3: // Ctrl+C
				fmt.Print("^C\r\n")
				return "", io.EOF
			case 4: // Ctrl+D
				if len(line) == 0 {
					fmt.Print("\r\n")
					return "", io.EOF
				}
			case 127, 8: // backspace
				if cursor > 0 {
					line = append(line[:cursor-1], line[cursor:]...)
					cursor--
					redraw()
				}
			case 1: // Ctrl+A
				cursor = 0
				redraw()
			case 5: // Ctrl+E
				cursor = len(line)
				redraw()
			default:
				if b >= 32 {
					line = append(line, 0)
					copy(line[cursor+1:], line[cursor:])
					line[cursor] = b
					cursor++
					redraw()
				}
			}
		}
	}
}

func readPlainLine(prompt string) (string, error) {
	fmt.Print(prompt)
	r := bufio.NewReader(os.Stdin)
	s, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && strings.TrimSpace(s) != "" {
			return strings.TrimRight(s, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}
