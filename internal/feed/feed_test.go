package feed

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readme-feeds/internal/models"
)

func playlistFeed(titles ...string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns:media="http://search.yahoo.com/mrss/" xmlns="http://www.w3.org/2005/Atom">
  <link rel="self" href="https://www.youtube.com/feeds/videos.xml?playlist_id=PLtest000001"/>
  <title>Podcast</title>
`)
	for i, title := range titles {
		fmt.Fprintf(&b, `  <entry>
    <id>yt:video:v%d</id>
    <yt:videoId>v%d</yt:videoId>
    <title>%s</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=v%d"/>
    <media:group><media:title>%s</media:title></media:group>
  </entry>
`, i, i, title, i, title)
	}
	b.WriteString("</feed>\n")
	return []byte(b.String())
}

func TestParseAtomLimitKeepsOrder(t *testing.T) {
	all := []string{"Ep4", "Ep3", "Ep2", "Ep1"}
	for k := 0; k <= len(all); k++ {
		entries, err := Parse(playlistFeed(all[:k]...))
		require.NoError(t, err)
		for n := 0; n <= 5; n++ {
			got := Latest(entries, n)
			require.Len(t, got, min(k, n), "k=%d n=%d", k, n)
			for i, entry := range got {
				assert.Equal(t, all[i], entry.Title)
				assert.Equal(t, fmt.Sprintf("https://www.youtube.com/watch?v=v%d", i), entry.Link)
			}
		}
	}
}

func TestParseAtomWithoutNamespace(t *testing.T) {
	data := []byte(`<feed>
  <entry>
    <title>  Spaced  </title>
    <link rel="self" href="https://example.com/self"/>
    <link rel="alternate" href="https://example.com/alt"/>
  </entry>
  <entry>
    <title>Enclosure only</title>
    <link rel="enclosure" href="https://example.com/a.mp3"/>
    <link rel="related" href="https://example.com/related"/>
  </entry>
  <entry>
    <title>No link</title>
  </entry>
  <entry>
    <title></title>
    <link href="https://example.com/untitled"/>
  </entry>
</feed>`)

	entries, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{
		{Title: "Spaced", Link: "https://example.com/alt"},
		{Title: "Enclosure only", Link: "https://example.com/a.mp3"},
	}, entries)
}

func TestParseAtomLinkWithoutRelCountsAsAlternate(t *testing.T) {
	data := []byte(`<feed xmlns="http://www.w3.org/2005/Atom"><entry>
  <title>Bare first</title>
  <link href="https://example.com/bare"/>
  <link rel="alternate" href="https://example.com/marked"/>
</entry></feed>`)

	entries, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{{Title: "Bare first", Link: "https://example.com/bare"}}, entries)
}

func TestParseRSS(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Newsletter</title>
    <link>https://letters.example.com</link>
    <item><title>Ep3</title><link>http://x/3</link></item>
    <item><title>Ep2</title><link>http://x/2</link></item>
    <item><title>Ep1</title><link>http://x/1</link></item>
  </channel>
</rss>`)

	entries, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{
		{Title: "Ep3", Link: "http://x/3"},
		{Title: "Ep2", Link: "http://x/2"},
	}, Latest(entries, 2))
}

func TestParseRSSFallsBackToGUID(t *testing.T) {
	data := []byte(`<rss version="2.0"><channel>
  <item><title>By guid</title><link>  </link><guid isPermaLink="true">https://letters.example.com/p/guid</guid></item>
  <item><title>No link at all</title></item>
  <item><title>  </title><link>https://letters.example.com/p/untitled</link></item>
  <item><title><![CDATA[Tips & tricks]]></title><link>https://letters.example.com/p/tips</link></item>
</channel></rss>`)

	entries, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []models.Entry{
		{Title: "By guid", Link: "https://letters.example.com/p/guid"},
		{Title: "Tips & tricks", Link: "https://letters.example.com/p/tips"},
	}, entries)
}

func TestParseDeclaredCharset(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<rss version=\"2.0\"><channel><item><title>Caf\xe9</title><link>http://x/cafe</link></item></channel></rss>")

	entries, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Café", entries[0].Title)
}

func TestParseMalformed(t *testing.T) {
	inputs := map[string]string{
		"empty":         "",
		"text":          "not a feed",
		"unclosed":      "<rss><channel><item><title>x</title></channel></rss>",
		"truncated":     "<feed><entry><title>x</title>",
		"bad entity":    "<rss><channel><item><title>a &nbsp; b</title></item></channel></rss>",
		"bare amp":      "<feed><entry><title>a & b</title></entry></feed>",
		"only prolog":   `<?xml version="1.0"?>`,
		"second root":   "<rss><channel><item><title>x</title><link>y</link></item></channel></rss><rss/>",
		"trailing text": "<rss><channel><item><title>x</title><link>y</link></item></channel></rss> trailing text",
		"leading text":  "junk <rss><channel><item><title>x</title><link>y</link></item></channel></rss>",
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestParseUnsupportedRoot(t *testing.T) {
	_, err := Parse([]byte(`<html><body><p>hello</p></body></html>`))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "<html>")

	_, err = Parse([]byte(`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"></rdf:RDF>`))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDropPlaceholders(t *testing.T) {
	entries, err := Parse(playlistFeed("Ep2", "Private video", " DELETED VIDEO ", "Ep1", "Private videos"))
	require.NoError(t, err)

	kept := DropPlaceholders(entries)
	titles := make([]string, 0, len(kept))
	for _, entry := range kept {
		titles = append(titles, entry.Title)
	}
	assert.Equal(t, []string{"Ep2", "Ep1", "Private videos"}, titles)

	// The limit applies after filtering.
	assert.Len(t, Latest(kept, 3), 3)
	assert.Len(t, entries, 5)
}

func TestLatest(t *testing.T) {
	entries := []models.Entry{{Title: "a", Link: "1"}, {Title: "b", Link: "2"}}
	assert.Empty(t, Latest(entries, 0))
	assert.Empty(t, Latest(entries, -1))
	assert.Equal(t, entries[:1], Latest(entries, 1))
	assert.Equal(t, entries, Latest(entries, 10))
	assert.Empty(t, Latest(nil, 3))
}

func TestPlaylistFeedURL(t *testing.T) {
	assert.Equal(t,
		"https://www.youtube.com/feeds/videos.xml?playlist_id=PLabc_123-xyz",
		PlaylistFeedURL("https://www.youtube.com/", "PLabc_123-xyz"))
	assert.Equal(t,
		"http://127.0.0.1:8080/feeds/videos.xml?playlist_id=a%26b",
		PlaylistFeedURL("http://127.0.0.1:8080", "a&b"))
}
