package docdex_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	t.Run("takes header words longer than three characters", func(t *testing.T) {
		t.Parallel()

		keywords := docdex.ExtractKeywords("body", []string{"Getting Started", "The API"})

		assert.Contains(t, keywords, "getting")
		assert.Contains(t, keywords, "started")
		assert.NotContains(t, keywords, "the")
		assert.NotContains(t, keywords, "api")
	})

	t.Run("takes inline code spans longer than two characters", func(t *testing.T) {
		t.Parallel()

		content := "Call `Connect` then `db.Close` but not `ok`."

		keywords := docdex.ExtractKeywords(content, nil)

		assert.Contains(t, keywords, "connect")
		assert.Contains(t, keywords, "db.close")
		assert.NotContains(t, keywords, "ok")
	})

	t.Run("is sorted and deduplicated", func(t *testing.T) {
		t.Parallel()

		content := "Use `zebra` and `apple` and `zebra` again."

		keywords := docdex.ExtractKeywords(content, []string{"Apple Basics"})

		assert.Equal(t, []string{"apple", "basics", "zebra"}, keywords)
	})

	t.Run("caps at ten keywords", func(t *testing.T) {
		t.Parallel()

		var sb strings.Builder
		for i := 0; i < 15; i++ {
			fmt.Fprintf(&sb, "`keyword%02d` ", i)
		}

		keywords := docdex.ExtractKeywords(sb.String(), nil)

		assert.Len(t, keywords, 10)
	})

	t.Run("returns nil when nothing qualifies", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, docdex.ExtractKeywords("plain prose with no code", nil))
	})
}

func TestSectionPath(t *testing.T) {
	t.Parallel()

	t.Run("round-trips through ParseSectionPath", func(t *testing.T) {
		t.Parallel()

		path := []string{"API", "Auth", "Tokens"}

		assert.Equal(t, path, docdex.ParseSectionPath(docdex.SectionPath(path)))
	})

	t.Run("empty path renders Root and parses back to nil", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Root", docdex.SectionPath(nil))
		assert.Nil(t, docdex.ParseSectionPath("Root"))
		assert.Nil(t, docdex.ParseSectionPath(""))
	})
}
