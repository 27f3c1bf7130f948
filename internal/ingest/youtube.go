package ingest

import (
	"encoding/xml"
	"fmt"

	"github.com/skillo/pulse/internal/bus"
)

// YouTube PubSubHubbub notification: an Atom feed with yt-namespaced
// video and channel ids.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	VideoID   string     `xml:"http://www.youtube.com/xml/schemas/2015 videoId"`
	ChannelID string     `xml:"http://www.youtube.com/xml/schemas/2015 channelId"`
	Links     []atomLink `xml:"link"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

// ParseYouTube parses a YouTube PubSubHubbub Atom notification into
// youtube:video_uploaded events, one per entry carrying both a video id
// and a channel id.
func ParseYouTube(body []byte) ([]Event, error) {
	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse youtube atom feed: %w", err)
	}

	var events []Event
	for _, entry := range feed.Entries {
		if entry.VideoID == "" || entry.ChannelID == "" {
			continue
		}
		events = append(events, Event{
			Type: "youtube:video_uploaded",
			Payload: bus.Payload{
				"platform":  "youtube",
				"channelId": entry.ChannelID,
				"videoId":   entry.VideoID,
				"link":      entryLink(entry),
			},
		})
	}
	return events, nil
}

// entryLink picks the alternate link when present, else the first link.
func entryLink(entry atomEntry) string {
	for _, l := range entry.Links {
		if l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(entry.Links) > 0 {
		return entry.Links[0].Href
	}
	return ""
}
