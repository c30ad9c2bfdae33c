package bms

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// channel identifiers relevant to preview rendering; the rest of the BMS
// channel space (playable lanes, BGA, timing events we don't need) is parsed
// but discarded.
const (
	channelBGM           = "01"
	channelSectionLength = "02"
	channelBPMInline     = "03"
	channelBPMExtended   = "08"
)

// DecodeChartBytes converts raw chart bytes to UTF-8 text. Legacy BMS/BME/BML/PMS
// files are conventionally authored in Shift_JIS; this sniffs for a byte pattern
// outside plain ASCII/UTF-8 and falls back to Shift_JIS decoding, matching how the
// format's tooling has always detected encoding in the wild.
func DecodeChartBytes(raw []byte) (string, error) {
	if isLikelyUTF8(raw) {
		return string(raw), nil
	}
	reader := transform.NewReader(bytes.NewReader(raw), japanese.ShiftJIS.NewDecoder())
	decoded, err := readAll(reader)
	if err != nil {
		return "", fmt.Errorf("decode shift_jis: %w", err)
	}
	return string(decoded), nil
}

func isLikelyUTF8(raw []byte) bool {
	return utf8.Valid(raw)
}

func readAll(r *transform.Reader) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseText parses the legacy text-based BMS/BME/BML/PMS grammar.
func ParseText(text string) (*Chart, error) {
	c := &Chart{
		SectionLengthChanges: make(map[int]float64),
		WavFiles:             make(map[string]string),
	}

	extendedBPM := make(map[string]float64)        // base36 id -> bpm, from #BPMxx
	sectionData := make(map[int]map[string]string) // track -> channel -> raw object stream

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "#") {
			continue
		}
		line = line[1:]

		if channelLine, ok := splitChannelLine(line); ok {
			track := channelLine.track
			if sectionData[track] == nil {
				sectionData[track] = make(map[string]string)
			}
			sectionData[track][channelLine.channel] += channelLine.data
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "PREVIEW "):
			c.DeclaredPreview = strings.TrimSpace(line[len("PREVIEW "):])
		case strings.HasPrefix(upper, "BPM ") || upper == "BPM":
			val := strings.TrimSpace(line[3:])
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				c.InitialBPM = f
			}
		case len(upper) >= 5 && strings.HasPrefix(upper, "BPM"):
			id := line[3:5]
			if f, err := strconv.ParseFloat(strings.TrimSpace(trimDirectiveValue(line, 5)), 64); err == nil {
				extendedBPM[strings.ToLower(id)] = f
			}
		case len(upper) >= 5 && strings.HasPrefix(upper, "WAV"):
			id := line[3:5]
			path := strings.TrimSpace(trimDirectiveValue(line, 5))
			c.WavFiles[strings.ToLower(id)] = path
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan chart text: %w", err)
	}

	if c.InitialBPM <= 0 {
		c.InitialBPM = DefaultInitialBPM
	}

	for track, channels := range sectionData {
		if raw, ok := channels[channelSectionLength]; ok {
			if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && f > 0 {
				c.SectionLengthChanges[track] = f
			}
		}
		if raw, ok := channels[channelBGM]; ok {
			for _, obj := range splitObjects(raw) {
				if obj.id == "00" {
					continue
				}
				c.BackgroundNotes = append(c.BackgroundNotes, BackgroundNote{
					Offset: ObjTime{Track: track, Numerator: obj.index, Denominator: obj.total},
					WavID:  strings.ToLower(obj.id),
				})
			}
		}
		if raw, ok := channels[channelBPMInline]; ok {
			for _, obj := range splitObjects(raw) {
				if obj.id == "00" {
					continue
				}
				bpm, err := strconv.ParseInt(obj.id, 16, 32)
				if err != nil {
					continue
				}
				c.BPMChanges = append(c.BPMChanges, BPMChange{
					Offset: ObjTime{Track: track, Numerator: obj.index, Denominator: obj.total},
					BPM:    float64(bpm),
				})
			}
		}
		if raw, ok := channels[channelBPMExtended]; ok {
			for _, obj := range splitObjects(raw) {
				if obj.id == "00" {
					continue
				}
				bpm, ok := extendedBPM[strings.ToLower(obj.id)]
				if !ok {
					continue
				}
				c.BPMChanges = append(c.BPMChanges, BPMChange{
					Offset: ObjTime{Track: track, Numerator: obj.index, Denominator: obj.total},
					BPM:    bpm,
				})
			}
		}
	}

	return c, nil
}

// trimDirectiveValue returns the remainder of a directive line after its fixed-width
// keyword+id prefix, trimming a leading space if present.
func trimDirectiveValue(line string, prefixLen int) string {
	if len(line) <= prefixLen {
		return ""
	}
	rest := line[prefixLen:]
	return strings.TrimPrefix(rest, " ")
}

type channelLine struct {
	track   int
	channel string
	data    string
}

// splitChannelLine parses a "#TTTCC:data" line into its track, channel, and data.
func splitChannelLine(line string) (channelLine, bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 5 {
		return channelLine{}, false
	}
	head := line[:colon]
	if len(head) != 5 {
		return channelLine{}, false
	}
	track, err := strconv.Atoi(head[:3])
	if err != nil {
		return channelLine{}, false
	}
	channel := head[3:5]
	if !isDigits(channel) {
		return channelLine{}, false
	}
	return channelLine{track: track, channel: channel, data: line[colon+1:]}, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

type channelObject struct {
	id    string
	index int
	total int
}

// splitObjects splits a channel's raw object stream ("01020304...") into 2-character
// object IDs, each annotated with its position within the measure.
func splitObjects(raw string) []channelObject {
	raw = strings.TrimSpace(raw)
	if len(raw)%2 != 0 || len(raw) == 0 {
		return nil
	}
	total := len(raw) / 2
	objs := make([]channelObject, 0, total)
	for i := 0; i < total; i++ {
		id := raw[i*2 : i*2+2]
		objs = append(objs, channelObject{id: id, index: i, total: total})
	}
	return objs
}
