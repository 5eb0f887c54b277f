// Package shortcode generates the 8-character opaque tokens that map
// to persisted clip records.
package shortcode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const codeLength = 8

// Generator produces short codes. In deterministic mode the code is a
// hash of (videoID, start), so creating the same clip twice yields the
// same code. In random mode every call yields a fresh code.
type Generator struct {
	deterministic bool
}

func NewGenerator(deterministic bool) *Generator {
	return &Generator{deterministic: deterministic}
}

func (g *Generator) Generate(videoID string, start int) string {
	if g.deterministic {
		sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d", videoID, start)))
		return hex.EncodeToString(sum[:])[:codeLength]
	}
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:codeLength]
}
