// Package codec serializes a group roster into the self-describing token
// that lives in the rendered card's author URL. The token is the only
// persistence mechanism: a card that fell out of the in-process cache is
// rebuilt entirely from it.
package codec

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/luk-gg/lukchan/internal/roster"
)

// ErrDecode is the root of the decode error taxonomy; every failure below
// satisfies errors.Is(err, ErrDecode).
var ErrDecode = errors.New("decode failed")

var (
	ErrTruncated = fmt.Errorf("%w: truncated token", ErrDecode)
	ErrVersion   = fmt.Errorf("%w: unknown token version", ErrDecode)
	ErrCorrupt   = fmt.Errorf("%w: corrupt payload", ErrDecode)
	ErrSchema    = fmt.Errorf("%w: schema mismatch", ErrDecode)
)

// maxDecodedLen bounds the inflated payload. Rosters serialize to a few
// kilobytes; anything bigger is a compression bomb, not a group.
const maxDecodedLen = 1 << 20

// Version selects the wire format of newly encoded tokens.
type Version byte

const (
	// VersionLegacy is percent-escaped JSON, readable in the URL bar.
	VersionLegacy Version = '1'
	// VersionCompact is base64url(deflate(JSON)).
	VersionCompact Version = '2'
)

// VersionFromInt maps a numeric config value to a Version, defaulting to
// the compact form.
func VersionFromInt(n int) Version {
	if n == 1 {
		return VersionLegacy
	}
	return VersionCompact
}

// Codec builds and parses token URLs of the form
// https://<host>/<path>?data=<version><payload>.
type Codec struct {
	Host    string
	Path    string
	Version Version
}

func New(host, path string, v Version) Codec {
	return Codec{Host: host, Path: strings.Trim(path, "/"), Version: v}
}

// Token encodes the group with the configured version.
func (c Codec) Token(g *roster.Group) (string, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return "", err
	}

	switch c.Version {
	case VersionLegacy:
		return string(VersionLegacy) + url.QueryEscape(string(raw)), nil
	case VersionCompact:
		var buf bytes.Buffer
		zw, err := flate.NewWriter(&buf, flate.BestCompression)
		if err != nil {
			return "", err
		}
		if _, err := zw.Write(raw); err != nil {
			return "", err
		}
		if err := zw.Close(); err != nil {
			return "", err
		}
		return string(VersionCompact) + base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
	default:
		return "", fmt.Errorf("codec: unsupported version %q", c.Version)
	}
}

// URL encodes the group and wraps the token in the card link.
func (c Codec) URL(g *roster.Group) (string, error) {
	token, err := c.Token(g)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://%s/%s?data=%s", c.Host, c.Path, token), nil
}

// Decode rebuilds a group from a bare token. The version discriminator is
// the first byte; both historical formats are accepted regardless of the
// codec's configured write version.
func Decode(token string) (*roster.Group, error) {
	if len(token) < 2 {
		return nil, ErrTruncated
	}

	var raw []byte
	switch Version(token[0]) {
	case VersionLegacy:
		s, err := url.QueryUnescape(token[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		raw = []byte(s)
	case VersionCompact:
		comp, err := base64.RawURLEncoding.DecodeString(token[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		zr := flate.NewReader(bytes.NewReader(comp))
		raw, err = io.ReadAll(io.LimitReader(zr, maxDecodedLen+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if len(raw) > maxDecodedLen {
			return nil, fmt.Errorf("%w: payload exceeds %d bytes", ErrCorrupt, maxDecodedLen)
		}
	default:
		return nil, ErrVersion
	}

	var g roster.Group
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := validate(&g); err != nil {
		return nil, err
	}

	// Lists stay non-nil so mutators and the renderer never special-case.
	if g.DPS == nil {
		g.DPS = []roster.Member{}
	}
	if g.Support == nil {
		g.Support = []roster.Member{}
	}
	if g.Tank == nil {
		g.Tank = []roster.Member{}
	}
	return &g, nil
}

// DecodeURL extracts the data parameter from a card link and decodes it.
// The raw substring is taken as-is: query parsing would unescape the
// legacy payload one time too many.
func DecodeURL(rawURL string) (*roster.Group, error) {
	_, token, found := strings.Cut(rawURL, "data=")
	if !found || token == "" {
		return nil, ErrTruncated
	}
	return Decode(token)
}

func validate(g *roster.Group) error {
	switch {
	case g.Name == "":
		return fmt.Errorf("%w: missing name", ErrSchema)
	case g.Time.IsZero():
		return fmt.Errorf("%w: missing time", ErrSchema)
	case g.Owner.ID == "":
		return fmt.Errorf("%w: missing owner", ErrSchema)
	}
	return nil
}
