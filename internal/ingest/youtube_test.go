package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const youtubeNotification = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <title>YouTube video feed</title>
  <entry>
    <id>yt:video:dQw4w9WgXcQ</id>
    <yt:videoId>dQw4w9WgXcQ</yt:videoId>
    <yt:channelId>UC38IQsAvIsxxjztdMZQtwHA</yt:channelId>
    <title>New upload</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=dQw4w9WgXcQ"/>
    <published>2025-07-01T10:00:00+00:00</published>
  </entry>
</feed>`

func TestParseYouTube_VideoUploaded(t *testing.T) {
	events, err := ParseYouTube([]byte(youtubeNotification))
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "youtube:video_uploaded", ev.Type)
	assert.Equal(t, "youtube", ev.Payload.String("platform"))
	assert.Equal(t, "dQw4w9WgXcQ", ev.Payload.String("videoId"))
	assert.Equal(t, "UC38IQsAvIsxxjztdMZQtwHA", ev.Payload.String("channelId"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", ev.Payload.String("link"))
}

func TestParseYouTube_MultipleEntries(t *testing.T) {
	body := `<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <entry><yt:videoId>v1</yt:videoId><yt:channelId>c1</yt:channelId></entry>
  <entry><yt:videoId>v2</yt:videoId><yt:channelId>c1</yt:channelId></entry>
</feed>`

	events, err := ParseYouTube([]byte(body))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "v1", events[0].Payload.String("videoId"))
	assert.Equal(t, "v2", events[1].Payload.String("videoId"))
}

func TestParseYouTube_EntryWithoutIDsSkipped(t *testing.T) {
	// Deletion notifications carry a deleted-entry element instead of a
	// video entry; the feed parses but yields nothing.
	body := `<feed xmlns:at="http://purl.org/atompub/tombstones/1.0" xmlns="http://www.w3.org/2005/Atom">
  <at:deleted-entry ref="yt:video:gone" when="2025-07-01T10:00:00+00:00"/>
</feed>`

	events, err := ParseYouTube([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseYouTube_FirstLinkFallback(t *testing.T) {
	body := `<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <yt:videoId>v1</yt:videoId>
    <yt:channelId>c1</yt:channelId>
    <link rel="self" href="https://example.com/self"/>
  </entry>
</feed>`

	events, err := ParseYouTube([]byte(body))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "https://example.com/self", events[0].Payload.String("link"))
}

func TestParseYouTube_MalformedXML(t *testing.T) {
	_, err := ParseYouTube([]byte(`<feed><entry>`))
	assert.Error(t, err)
}
