package xmldoc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSelfClosing(t *testing.T) {
	bsdf := New("bsdf", "type", "diffuse").Add(Entry("color", "albedo", "0.8, 0.2, 0.2"))
	assert.Equal(t, "<bsdf type=\"diffuse\">\n\t<color name=\"albedo\" value=\"0.8, 0.2, 0.2\"/>\n</bsdf>", bsdf.String())
}

func TestWriteDocumentEscapes(t *testing.T) {
	root := New("scene").Add(Entry("string", "filename", `meshes/a&b "c".obj`))

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, root))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, Header+"\n<scene>\n"))
	assert.Contains(t, out, `value="meshes/a&amp;b &#34;c&#34;.obj"`)

	parsed, err := Parse(&buf)
	require.NoError(t, err)
	v, ok := parsed.Param("filename").Attr("value")
	assert.True(t, ok)
	assert.Equal(t, `meshes/a&b "c".obj`, v)
}

func TestAddSkipsNil(t *testing.T) {
	e := New("mesh").Add(nil, New("bsdf"), nil)
	assert.Len(t, e.Children, 1)
	assert.Len(t, e.Find("bsdf"), 1)
	assert.Empty(t, e.Find("emitter"))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("<a/><b/>"))
	assert.Error(t, err)
}
