package chilithemer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kataras/chili-themer/pkg/chili"
	"github.com/kataras/chili-themer/pkg/conversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endToEndDocument = `<?xml version="1.0" encoding="utf-8"?>
<document name="flyer">
  <layers>
    <item id="L-base" name="base"/>
    <item id="L-text" name="theme1/text"/>
    <item id="L-image" name="theme1/image"/>
  </layers>
  <pages>
    <item id="P1">
      <frames>
        <item id="1111aaaa-0001" layer="L-base" type="text"><textFlow><TextFlow><p><span>Base</span></p></TextFlow></textFlow></item>
        <item id="2222bbbb-0002" layer="L-text" type="text"><textFlow><TextFlow><p><span>Headline</span></p></TextFlow></textFlow></item>
        <item id="3333cccc-0003" layer="L-image" type="image"/>
        <item id="4444dddd-0004" layer="L-text" type="text"><textFlow><TextFlow><p><span>Headline</span></p></TextFlow></textFlow></item>
      </frames>
    </item>
  </pages>
</document>`

type recordingLogger struct {
	infos, warns, errs []string
}

func (l *recordingLogger) Infof(f string, a ...any) {
	l.infos = append(l.infos, fmt.Sprintf(f, a...))
}

func (l *recordingLogger) Warnf(f string, a ...any) {
	l.warns = append(l.warns, fmt.Sprintf(f, a...))
}

func (l *recordingLogger) Errorf(f string, a ...any) {
	l.errs = append(l.errs, fmt.Sprintf(f, a...))
}

func TestRun_EndToEnd(t *testing.T) {
	text := conversion.NewTextVariables([]string{"text"}, nil, conversion.TextOptions{})
	logger := &recordingLogger{}

	result, err := Run(context.Background(), Options{
		Document:     endToEndDocument,
		DefaultTheme: "default",
		ThemeTags:    []string{"theme1"},
		Conversions:  []conversion.Conversion{text},
		Logger:       logger,
	})
	require.NoError(t, err)

	require.Len(t, result.Themes, 2)
	assert.Equal(t, "default", result.Themes[0].Name)
	assert.Empty(t, result.Themes[0].Conversions)
	assert.Equal(t, "", result.Themes[1].Name)
	require.Len(t, result.Themes[1].Conversions, 1)
	assert.Equal(t, "L-text", result.Themes[1].Conversions[0].LayerID)
	assert.Equal(t, []string{"2222bbbb-0002", "4444dddd-0004"}, result.Themes[1].Conversions[0].LayerFrameIDs)

	doc, err := chili.Load(result.XML)
	require.NoError(t, err)

	converted := doc.Frames([]string{"L-text"}, "text")
	require.Len(t, converted, 2)
	for i, frame := range converted {
		assert.Equal(t, "true", frame.SelectAttrValue("isVariable", ""))
		assert.Equal(t, "-Text Variables", frame.SelectAttrValue("name", ""))
		assert.Equal(t, fmt.Sprintf("-Text Variables-%d", i+1), frame.SelectAttrValue("tag", ""))
		assert.Equal(t, "%2222bbbb%", chili.TextSpan(frame).Text())
	}

	base := doc.Frames([]string{"L-base"}, "text")
	require.Len(t, base, 1)
	assert.Empty(t, base[0].SelectAttrValue("isVariable", ""))
	assert.Equal(t, "Base", chili.TextSpan(base[0]).Text())

	assert.Len(t, doc.Variables(), 1)
	assert.Len(t, result.Variables, 1)
	assert.Equal(t, "Headline", result.Variables[0].Value)

	entries, err := Inspect(result.XML)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, result.MetadataID, entries[0].ID)
	assert.Equal(t, result.Themes, entries[0].Themes)

	assert.NotEmpty(t, logger.infos)
	assert.Empty(t, logger.errs)
	assert.True(t, strings.HasPrefix(result.XML, "<?xml"))
}

func TestRun_Arguments(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantName string
	}{
		{name: "empty document", opts: Options{DefaultTheme: "base"}, wantName: "document"},
		{name: "empty default theme", opts: Options{Document: "<document/>"}, wantName: "default theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.opts)
			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr), "want *ArgumentError, got %v", err)
			assert.Equal(t, tt.wantName, argErr.Name)
		})
	}
}

func TestRun_ParseError(t *testing.T) {
	logger := &recordingLogger{}
	_, err := Run(context.Background(), Options{Document: "<document name=unquoted/>", DefaultTheme: "base", Logger: logger})

	var parseErr *chili.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.NotEmpty(t, logger.errs)
}

func TestRun_MalformedFrameAborts(t *testing.T) {
	source := `<document>
  <layers><item id="L1" name="text"/></layers>
  <pages><item><frames><item id="F1" layer="L1" type="text"/></frames></item></pages>
</document>`

	_, err := Run(context.Background(), Options{
		Document:     source,
		DefaultTheme: "base",
		Conversions:  []conversion.Conversion{conversion.NewTextVariables([]string{"text"}, nil, conversion.TextOptions{})},
	})

	var malformed *conversion.MalformedFrameError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "F1", malformed.FrameID)
}

func TestRun_NoConversionsWarns(t *testing.T) {
	logger := &recordingLogger{}
	result, err := Run(context.Background(), Options{Document: `<document/>`, DefaultTheme: "base", Logger: logger})
	require.NoError(t, err)

	assert.Len(t, logger.warns, 1)
	require.Len(t, result.Themes, 1)
	assert.Equal(t, "base", result.Themes[0].Name)
	assert.Contains(t, result.XML, `tag="themes"`)
}

func TestRun_RerunAppendsMetadata(t *testing.T) {
	first, err := Run(context.Background(), Options{Document: endToEndDocument, DefaultTheme: "default"})
	require.NoError(t, err)
	second, err := Run(context.Background(), Options{Document: first.XML, DefaultTheme: "default"})
	require.NoError(t, err)

	entries, err := Inspect(second.XML)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestInspect_Empty(t *testing.T) {
	_, err := Inspect("")
	var argErr *ArgumentError
	assert.True(t, errors.As(err, &argErr))
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single", in: "theme:", want: []string{"theme:"}},
		{name: "trimmed", in: " a , b ", want: []string{"a", "b"}},
		{name: "empties dropped", in: "a,,b,", want: []string{"a", "b"}},
		{name: "empty", in: "", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.in))
		})
	}
}
