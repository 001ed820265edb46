package webapi

import (
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Include selects the optional sections of a player lookup
type Include uint8

const (
	// IncludeEquipment requests the equipment list
	IncludeEquipment Include = 1 << iota
	// IncludeSkills requests the skill levels
	IncludeSkills

	// IncludeAll requests every optional section
	IncludeAll = IncludeEquipment | IncludeSkills
)

// String returns the value of the include query parameter, equipment before skills
func (i Include) String() string {
	var parts []string
	if i&IncludeEquipment != 0 {
		parts = append(parts, "equipment")
	}
	if i&IncludeSkills != 0 {
		parts = append(parts, "skills")
	}
	return strings.Join(parts, ",")
}

// query returns the extra query parameters for a player lookup, nil when nothing is included
func (i Include) query() url.Values {
	value := i.String()
	if value == "" {
		return nil
	}
	return url.Values{"include": {value}}
}

var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateTime checks that value is a 24-hour HH:MM clock time.
// It returns an *APIError of kind KindInvalidTime otherwise.
func ValidateTime(value string) error {
	if !timePattern.MatchString(value) {
		return &APIError{
			Kind:    KindInvalidTime,
			Message: strconv.Quote(value) + " is not a HH:MM time",
		}
	}
	return nil
}

// BuildURL composes the URL for endpoint. Authenticated URLs carry the shared key as the
// first query parameter; extra parameters follow it.
func (c *Client) BuildURL(endpoint string, authenticated bool, extra url.Values) string {
	u := c.scheme + "://" + net.JoinHostPort(c.host, strconv.Itoa(c.port)) + "/" + endpoint

	sep := "?"
	if authenticated {
		u += sep + "key=" + url.QueryEscape(c.key)
		sep = "&"
	}
	if len(extra) > 0 {
		u += sep + extra.Encode()
	}

	return u
}

// segment joins endpoint path parts, escaping each caller supplied part
func segment(base string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+1)
	escaped = append(escaped, base)
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return strings.Join(escaped, "/")
}
