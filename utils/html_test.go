package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "hello", StripHTML("<p>hello</p>"))
	assert.Equal(t, "a b", StripHTML("a&nbsp;b"))
	assert.Equal(t, "line", StripHTML("<div class=\"x\">line</div>"))
	assert.Equal(t, "one\ntwo", StripHTML("<p>one</p>\n<p>two</p>"))
}

func TestIsHTMLEmpty(t *testing.T) {
	empty := []string{
		"",
		"   ",
		"<p></p>",
		"<p><br/></p>",
		"<p>&nbsp;</p>",
		"<div>\n\t</div>",
	}
	for _, s := range empty {
		assert.True(t, IsHTMLEmpty(s), "expected %q to be empty", s)
	}

	assert.False(t, IsHTMLEmpty("<p>note</p>"))
	assert.False(t, IsHTMLEmpty("plain text"))
}
