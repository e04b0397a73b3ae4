//go:build !linux

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

func readInteractiveLine(prompt string) (string, error) {
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
