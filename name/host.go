package name

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// Host is a normalized upstream host name or IP address.
type Host struct {
	// Unicode is the human readable form of the host, used in logs.
	Unicode string

	// Punycode is the ASCII form of the host, used when dialing and in the
	// forwarded Host header.
	Punycode string

	// IsIP is true if the host is an IPv4 or IPv6 literal.
	IsIP bool
}

func (h Host) String() string {
	return h.Unicode
}

// TryParse attempts to produce a Host value from the host portion of an
// absolute URL. IPv6 literals must not be enclosed in brackets.
func TryParse(host string) (Host, error) {
	if ip := net.ParseIP(host); ip != nil {
		s := ip.String()
		return Host{s, s, true}, nil
	}

	var normalized Host
	var err error

	lowercase := strings.ToLower(host)
	normalized.Punycode, err = idna.ToASCII(lowercase)
	if err != nil {
		return normalized, err
	} else if !isDomainName(normalized.Punycode) {
		return normalized, fmt.Errorf("invalid host name '%s'", host)
	}

	normalized.Unicode, err = idna.ToUnicode(lowercase)

	return normalized, err
}

// isDomainName checks if the given domain name is valid.
func isDomainName(domainName string) bool {
	if len(domainName) == 0 || len(domainName) > 255 {
		return false
	}

	hasLetter := false
	atomLength := 0
	previousChar := byte('.')

	for index := 0; index < len(domainName); index++ {
		char := domainName[index]

		switch {
		case 'a' <= char && char <= 'z':
			fallthrough
		case 'A' <= char && char <= 'Z':
			fallthrough
		case char == '_':
			hasLetter = true
			fallthrough
		case '0' <= char && char <= '9':
			atomLength++
		case char == '-':
			// Byte before dash cannot be dot.
			if previousChar == '.' {
				return false
			}
			atomLength++
		case char == '.':
			// Byte before dot cannot be dot, dash.
			if previousChar == '.' || previousChar == '-' {
				return false
			} else if atomLength > 63 || atomLength == 0 {
				return false
			}
			atomLength = 0
		default:
			return false
		}

		previousChar = char
	}

	return hasLetter &&
		previousChar != '-' &&
		previousChar != '.' &&
		atomLength < 64
}
