// Package rle reads run-length-encoded pattern files into a universe.
// The format is the common RLE dialect: optional # comment lines, a
// header `x = W, y = H, rule = R`, then a token stream where b/. skip,
// o and the letter pairs write cells, $ ends a row and ! ends the file.
package rle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"hashlife/internal/core"
	"hashlife/internal/rule"
	"hashlife/internal/store"
	"hashlife/internal/universe"
)

// ErrReadFailed reports a malformed pattern stream.
var ErrReadFailed = errors.New("read failed")

// progressEvery throttles load progress logging.
const progressEvery = 100000

// Read parses an RLE stream and returns a universe over a fresh store
// with the given node ceiling (zero selects the default).
func Read(r io.Reader, maxNodes int) (*universe.Universe, error) {
	return ReadWithRule(r, maxNodes, nil)
}

// ReadWithRule is Read with the header rule replaced by an override
// table. The header still has to be well-formed.
func ReadWithRule(r io.Reader, maxNodes int, override *rule.Table) (*universe.Universe, error) {
	br := bufio.NewReader(r)

	hdr, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	tbl := override
	if tbl == nil {
		tbl, err = rule.Parse(hdr.rule)
		if err != nil {
			return nil, fmt.Errorf("rle: %w", err)
		}
	}

	u := universe.New(store.New(maxNodes, tbl))
	if err := readBody(br, u); err != nil {
		return nil, err
	}
	u.Finalize()
	return u, nil
}

type header struct {
	w, h int
	rule string
}

// readHeader skips comment lines and parses the x/y/rule line.
func readHeader(br *bufio.Reader) (header, error) {
	for {
		line, err := br.ReadString('\n')
		if err != nil && line == "" {
			return header{}, fmt.Errorf("rle: missing header: %w", ErrReadFailed)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			if err != nil {
				return header{}, fmt.Errorf("rle: missing header: %w", ErrReadFailed)
			}
			continue
		}
		return parseHeader(line)
	}
}

func parseHeader(line string) (header, error) {
	var hdr header
	for _, part := range strings.Split(line, ",") {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return header{}, fmt.Errorf("rle: bad header %q: %w", line, ErrReadFailed)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "x":
			if _, err := fmt.Sscanf(value, "%d", &hdr.w); err != nil {
				return header{}, fmt.Errorf("rle: bad width %q: %w", value, ErrReadFailed)
			}
		case "y":
			if _, err := fmt.Sscanf(value, "%d", &hdr.h); err != nil {
				return header{}, fmt.Errorf("rle: bad height %q: %w", value, ErrReadFailed)
			}
		case "rule":
			hdr.rule = value
		default:
			return header{}, fmt.Errorf("rle: unknown header field %q: %w", key, ErrReadFailed)
		}
	}
	if hdr.rule == "" {
		return header{}, fmt.Errorf("rle: header missing rule: %w", ErrReadFailed)
	}
	return hdr, nil
}

// readBody walks the token stream writing cells until the terminating '!'.
func readBody(br *bufio.Reader, u *universe.Universe) error {
	var x, y int64
	var count int64
	var pop uint64

	take := func() int64 {
		if count == 0 {
			return 1
		}
		c := count
		count = 0
		return c
	}
	write := func(n int64, c core.Cell) {
		for i := int64(0); i < n; i++ {
			u.SetCell(x, y, c)
			x++
			pop++
			if pop%progressEvery == 0 {
				slog.Info("loading pattern", "cells", pop)
			}
		}
	}

	for {
		ch, _, err := br.ReadRune()
		if err != nil {
			return fmt.Errorf("rle: unterminated pattern: %w", ErrReadFailed)
		}
		switch {
		case ch >= '0' && ch <= '9':
			count = count*10 + int64(ch-'0')
		case ch == 'b' || ch == '.':
			x += take()
		case ch == 'o':
			write(take(), 1)
		case ch >= 'A' && ch <= 'X':
			write(take(), 1+core.Cell(ch-'A'))
		case ch == 'p':
			n := take()
			ch, _, err = br.ReadRune()
			if err != nil || ch < 'A' || ch > 'X' {
				return fmt.Errorf("rle: bad p-run: %w", ErrReadFailed)
			}
			write(n, 25+core.Cell(ch-'A'))
		case ch >= 'q' && ch < 'y':
			base := core.Cell(ch - 'q')
			n := take()
			ch, _, err = br.ReadRune()
			if err != nil || ch < 'A' || ch > 'Z' {
				return fmt.Errorf("rle: bad multi-state run: %w", ErrReadFailed)
			}
			write(n, 49+26*base+core.Cell(ch-'A'))
		case ch == 'y':
			n := take()
			ch, _, err = br.ReadRune()
			if err != nil || ch < 'A' || ch > 'O' {
				return fmt.Errorf("rle: bad y-run: %w", ErrReadFailed)
			}
			write(n, 241+core.Cell(ch-'A'))
		case ch == '$':
			y += take()
			x = 0
		case ch == '!':
			slog.Debug("pattern loaded", "cells", pop)
			return nil
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		default:
			return fmt.Errorf("rle: unexpected %q: %w", ch, ErrReadFailed)
		}
	}
}
