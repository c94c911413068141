package model

import (
	"fmt"
	"runtime"
	"strings"
)

// LineEnding is the policy used to pick the line terminator of a file.
type LineEnding string

const (
	// LineEndingAuto keeps whichever terminator the file mostly uses.
	LineEndingAuto LineEnding = "auto"
	// LineEndingNative uses the terminator of the running platform.
	LineEndingNative LineEnding = "native"
	// LineEndingLF forces "\n".
	LineEndingLF LineEnding = "lf"
	// LineEndingCRLF forces "\r\n".
	LineEndingCRLF LineEnding = "crlf"
	// LineEndingCR forces "\r".
	LineEndingCR LineEnding = "cr"
)

// ParseLineEnding validates a configured line-ending policy. An empty value
// means LineEndingAuto.
func ParseLineEnding(value string) (LineEnding, error) {
	switch policy := LineEnding(strings.ToLower(strings.TrimSpace(value))); policy {
	case "":
		return LineEndingAuto, nil
	case LineEndingAuto, LineEndingNative, LineEndingLF, LineEndingCRLF, LineEndingCR:
		return policy, nil
	default:
		return "", fmt.Errorf("unknown line ending policy %q", value)
	}
}

// NativeTerminator is the line terminator of the running platform.
func NativeTerminator() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}

	return "\n"
}

// Resolve returns the terminator to use for text. For LineEndingAuto the most
// frequent terminator in text wins; fallback is used when text contains no
// terminator at all.
func (le LineEnding) Resolve(text, fallback string) string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	case LineEndingNative:
		return NativeTerminator()
	case LineEndingAuto, "":
		return majorityTerminator(text, fallback)
	default:
		return fallback
	}
}

// majorityTerminator counts terminators; ties prefer "\n", then "\r\n".
func majorityTerminator(text, fallback string) string {
	var lf, crlf, cr int

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lf++
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		}
	}

	switch {
	case lf == 0 && crlf == 0 && cr == 0:
		return fallback
	case lf >= crlf && lf >= cr:
		return "\n"
	case crlf >= cr:
		return "\r\n"
	default:
		return "\r"
	}
}

// ToUnix rewrites every terminator in text to "\n".
func ToUnix(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	return strings.ReplaceAll(text, "\r", "\n")
}

// FromUnix rewrites "\n" terminators in text to terminator.
func FromUnix(text, terminator string) string {
	if terminator == "\n" || terminator == "" {
		return text
	}

	return strings.ReplaceAll(text, "\n", terminator)
}
