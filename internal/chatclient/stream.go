package chatclient

import (
	"encoding/json"
	"strings"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// streamChunk mirrors the delta frames of the upstream event stream.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// streamDecoder turns raw stream bytes into content fragments. It buffers
// until a newline completes a line, so a JSON object split across reads is
// parsed exactly once when its line is complete.
type streamDecoder struct {
	buf  string
	done bool
}

// feed consumes the next chunk of decoded text and returns the content
// fragments completed by it, in order. Non-data lines and malformed JSON are
// skipped; the [DONE] sentinel stops all further decoding.
func (d *streamDecoder) feed(chunk string) []string {
	if d.done {
		return nil
	}

	d.buf += chunk

	var fragments []string
	for {
		idx := strings.IndexByte(d.buf, '\n')
		if idx < 0 {
			break
		}

		line := strings.TrimSuffix(d.buf[:idx], "\r")
		d.buf = d.buf[idx+1:]

		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, dataPrefix)

		if payload == doneSentinel {
			d.done = true
			return fragments
		}

		// A parse failure here means a malformed frame, not a split one;
		// split frames never reach this point because the line is incomplete.
		var frame streamChunk
		if err := json.Unmarshal([]byte(payload), &frame); err != nil {
			continue
		}

		for _, choice := range frame.Choices {
			if choice.Delta.Content != "" {
				fragments = append(fragments, choice.Delta.Content)
			}
		}
	}

	return fragments
}
