// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadPassword prompts on output and reads a password from input. On a
// terminal the password is read without echo. Otherwise a single line
// is read, so `printf 'pw\n' | desk login` works in scripts.
func ReadPassword(input *os.File, output io.Writer, label string) (*Buffer, error) {
	descriptor := int(input.Fd())
	if !term.IsTerminal(descriptor) {
		return ReadLine(input)
	}

	fmt.Fprintf(output, "%s: ", label)
	password, err := term.ReadPassword(descriptor)
	fmt.Fprintln(output)
	if err != nil {
		Zero(password)
		return nil, fmt.Errorf("reading %s: %w", label, err)
	}
	return NewFromBytes(password)
}

// maxLine bounds ReadLine so the line never reallocates.
const maxLine = 4096

// ReadLine reads up to the first newline from reader into a Buffer.
// The trailing "\n" or "\r\n" is stripped. Bytes are read one at a
// time so nothing past the newline is consumed, which lets callers
// read several secrets from one pipe. Lines longer than maxLine are
// truncated.
func ReadLine(reader io.Reader) (*Buffer, error) {
	line := make([]byte, 0, maxLine)
	var single [1]byte
	for len(line) < maxLine {
		count, err := reader.Read(single[:])
		if count == 1 {
			if single[0] == '\n' {
				break
			}
			line = append(line, single[0])
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			Zero(line)
			return nil, fmt.Errorf("secret: reading line: %w", err)
		}
	}
	Zero(single[:])
	if length := len(line); length > 0 && line[length-1] == '\r' {
		Zero(line[length-1:])
		line = line[:length-1]
	}
	return NewFromBytes(line)
}
