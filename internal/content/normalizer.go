// Package content turns raw provider payloads into the canonical
// ParsedMessage display model. Stored payloads arrive in two competing
// wire shapes from the same provider: a flat form with a "type"
// discriminator plus a same-named nested object, and a nested form
// keyed by "<kind>Message". Detection is purely structural; there is
// no mode flag. Every extraction here is total: a malformed payload
// degrades to a best-effort text message, it never fails.
package content

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"wachat/internal/models"
)

const fallbackStringMaxLen = 500

var (
	vcardFormattedName = regexp.MustCompile(`(?m)^FN[;:](.*)$`)
	vcardTelephone     = regexp.MustCompile(`(?m)^TEL[^:]*:(.*)$`)
)

// shapeBKeys is the fixed Shape-B detection order. First match wins.
var shapeBKeys = []struct {
	key  string
	kind models.Kind
}{
	{"imageMessage", models.KindImage},
	{"videoMessage", models.KindVideo},
	{"audioMessage", models.KindAudio},
	{"documentMessage", models.KindDocument},
	{"stickerMessage", models.KindSticker},
	{"locationMessage", models.KindLocation},
	{"contactMessage", models.KindContact},
	{"contactsArrayMessage", models.KindContact},
	{"pollCreationMessage", models.KindPoll},
	{"pollMessage", models.KindPoll},
	{"reactionMessage", models.KindReaction},
	{"interactiveMessage", models.KindInteractive},
	{"templateMessage", models.KindInteractive},
	{"buttonsResponseMessage", models.KindInteractive},
	{"listResponseMessage", models.KindInteractive},
}

// shapeAKinds maps the flat-form "type" discriminator to a kind. The
// discriminator only counts when a same-named nested object exists.
var shapeAKinds = map[string]models.Kind{
	"text":        models.KindText,
	"image":       models.KindImage,
	"video":       models.KindVideo,
	"audio":       models.KindAudio,
	"document":    models.KindDocument,
	"sticker":     models.KindSticker,
	"location":    models.KindLocation,
	"contact":     models.KindContact,
	"poll":        models.KindPoll,
	"interactive": models.KindInteractive,
	"reaction":    models.KindReaction,
}

// Normalizer parses stored payloads into ParsedMessage values. It
// carries only the media URL-rewrite configuration; parsing itself is
// stateless.
type Normalizer struct {
	internalHosts []string
	publicOrigin  string
}

func NewNormalizer(cfg models.MediaConfig) *Normalizer {
	return &Normalizer{
		internalHosts: cfg.InternalHosts,
		publicOrigin:  strings.TrimSuffix(cfg.PublicOrigin, "/"),
	}
}

// Parse converts one stored payload into its display model. The input
// may be a JSON object, a JSON string wrapping a JSON object, or plain
// text; anything undecodable is treated as plain text.
func (n *Normalizer) Parse(raw string) models.ParsedMessage {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return models.ParsedMessage{Kind: models.KindText}
	}

	obj, ok := decodeObject(trimmed)
	if !ok {
		return models.ParsedMessage{Kind: models.KindText, TextContent: unquoted(trimmed)}
	}

	pm := n.parseObject(obj)
	pm.QuotedPreview = n.quotedPreview(obj)
	return pm
}

// parseObject classifies one decoded payload and runs the matching
// extractor. Shape A is checked first, then each Shape-B key in fixed
// order, then the plain-text fields, then the first-string fallback.
func (n *Normalizer) parseObject(obj map[string]interface{}) models.ParsedMessage {
	if typ, ok := obj["type"].(string); ok {
		if kind, known := shapeAKinds[typ]; known {
			if nested, ok := obj[typ].(map[string]interface{}); ok {
				pm := n.extract(kind, nested)
				fillText(&pm, obj)
				return pm
			}
		}
	}

	for _, entry := range shapeBKeys {
		if nested, ok := obj[entry.key].(map[string]interface{}); ok {
			pm := n.extract(entry.kind, nested)
			fillText(&pm, obj)
			return pm
		}
	}

	if text := plainText(obj); text != "" {
		return models.ParsedMessage{Kind: models.KindText, TextContent: text}
	}

	if s := firstString(obj); s != "" {
		return models.ParsedMessage{Kind: models.KindText, TextContent: s}
	}

	return models.ParsedMessage{Kind: models.KindText}
}

// extract pulls the per-kind attributes out of the matched nested
// object. Missing or mistyped fields leave the attribute empty.
func (n *Normalizer) extract(kind models.Kind, nested map[string]interface{}) models.ParsedMessage {
	pm := models.ParsedMessage{Kind: kind}

	switch kind {
	case models.KindImage:
		pm.MediaURL = n.RewriteMediaURL(mediaLink(nested))
		pm.Caption = getString(nested, "caption")
		if pm.MediaURL == "" {
			if thumb := getString(nested, "jpegThumbnail"); thumb != "" {
				pm.MediaURL = "data:image/jpeg;base64," + thumb
			}
		}
	case models.KindVideo:
		pm.MediaURL = n.RewriteMediaURL(mediaLink(nested))
		pm.Caption = getString(nested, "caption")
	case models.KindAudio, models.KindSticker:
		pm.MediaURL = n.RewriteMediaURL(mediaLink(nested))
	case models.KindDocument:
		pm.MediaURL = n.RewriteMediaURL(mediaLink(nested))
		pm.Caption = getString(nested, "caption")
		pm.FileName = documentFileName(nested, pm.MediaURL)
	case models.KindLocation:
		pm.Location = extractLocation(nested)
	case models.KindContact:
		pm.Contact = extractContact(nested)
	case models.KindPoll:
		pm.Interactive = extractPoll(nested)
	case models.KindReaction:
		pm.TextContent = getString(nested, "text")
	case models.KindInteractive:
		pm.Interactive = extractInteractive(nested)
	case models.KindText:
		pm.TextContent = asString(nested)
	}

	return pm
}

// fillText applies the secondary text-content pass: a dedicated text
// field from the outer payload wins, then the caption, then the
// interactive body.
func fillText(pm *models.ParsedMessage, obj map[string]interface{}) {
	if pm.TextContent != "" {
		return
	}
	if text := plainText(obj); text != "" {
		pm.TextContent = text
		return
	}
	if pm.Caption != "" {
		pm.TextContent = pm.Caption
		return
	}
	if pm.Interactive != nil && pm.Interactive.Body != "" {
		pm.TextContent = pm.Interactive.Body
	}
}

// plainText pulls the dedicated text field out of a payload:
// text.body, a bare text string, conversation, or
// extendedTextMessage.text.
func plainText(obj map[string]interface{}) string {
	switch v := obj["text"].(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]interface{}:
		if body := asString(v); body != "" {
			return body
		}
	}
	if conv := getString(obj, "conversation"); conv != "" {
		return conv
	}
	if ext, ok := obj["extendedTextMessage"].(map[string]interface{}); ok {
		if text := getString(ext, "text"); text != "" {
			return text
		}
	}
	return ""
}

// firstString is the last-resort classifier: the first string value of
// reasonable display length found in the payload. Keys are visited in
// sorted order so the result is deterministic.
func firstString(obj map[string]interface{}) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && len(s) >= 1 && len(s) <= fallbackStringMaxLen {
			return s
		}
	}
	return ""
}

// quotedPreview derives a one-line preview of an embedded replied-to
// message. One level only: the quoted payload is classified with the
// same structural rules, but its own quoted context is ignored.
func (n *Normalizer) quotedPreview(obj map[string]interface{}) string {
	quoted := quotedMessage(obj)
	if quoted == nil {
		return ""
	}

	pm := n.parseObject(quoted)
	if pm.Kind == models.KindText {
		return capRunes(pm.TextContent, previewTextMaxLen)
	}
	return kindLabel(pm)
}

func quotedMessage(obj map[string]interface{}) map[string]interface{} {
	if ctx, ok := obj["contextInfo"].(map[string]interface{}); ok {
		if q, ok := ctx["quotedMessage"].(map[string]interface{}); ok {
			return q
		}
	}
	if ext, ok := obj["extendedTextMessage"].(map[string]interface{}); ok {
		if ctx, ok := ext["contextInfo"].(map[string]interface{}); ok {
			if q, ok := ctx["quotedMessage"].(map[string]interface{}); ok {
				return q
			}
		}
	}
	if q, ok := obj["quotedMessage"].(map[string]interface{}); ok {
		return q
	}
	return nil
}

// RewriteMediaURL replaces any occurrence of a configured internal
// host with the public provider origin. Stored payloads sometimes
// embed internal-network URLs from the ingesting side; the client can
// only reach the public origin.
func (n *Normalizer) RewriteMediaURL(url string) string {
	if url == "" || n.publicOrigin == "" {
		return url
	}
	for _, host := range n.internalHosts {
		if host == "" {
			continue
		}
		url = strings.ReplaceAll(url, host, n.publicOrigin)
	}
	return url
}

func mediaLink(nested map[string]interface{}) string {
	if link := getString(nested, "link"); link != "" {
		return link
	}
	return getString(nested, "url")
}

func documentFileName(nested map[string]interface{}, mediaURL string) string {
	if name := getString(nested, "fileName"); name != "" {
		return name
	}
	if name := getString(nested, "filename"); name != "" {
		return name
	}
	if mediaURL == "" {
		return ""
	}
	segments := strings.Split(mediaURL, "/")
	last := segments[len(segments)-1]
	if i := strings.Index(last, "?"); i >= 0 {
		last = last[:i]
	}
	return last
}

func extractLocation(nested map[string]interface{}) *models.Location {
	loc := &models.Location{
		Name:    getString(nested, "name"),
		Address: getString(nested, "address"),
	}
	if lat, ok := getFloat(nested, "latitude"); ok {
		loc.Latitude = lat
	} else if lat, ok := getFloat(nested, "degreesLatitude"); ok {
		loc.Latitude = lat
	}
	if lng, ok := getFloat(nested, "longitude"); ok {
		loc.Longitude = lng
	} else if lng, ok := getFloat(nested, "degreesLongitude"); ok {
		loc.Longitude = lng
	}
	return loc
}

func extractContact(nested map[string]interface{}) *models.ContactCard {
	// contactsArrayMessage wraps a list; only the first entry is shown.
	if contacts, ok := nested["contacts"].([]interface{}); ok && len(contacts) > 0 {
		if first, ok := contacts[0].(map[string]interface{}); ok {
			nested = first
		}
	}

	card := &models.ContactCard{Name: getString(nested, "displayName")}

	if vcard := getString(nested, "vcard"); vcard != "" {
		if m := vcardFormattedName.FindStringSubmatch(vcard); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				card.Name = name
			}
		}
		if m := vcardTelephone.FindStringSubmatch(vcard); m != nil {
			if phone := strings.TrimSpace(m[1]); phone != "" {
				card.Phone = &phone
			}
		}
	}

	return card
}

func extractPoll(nested map[string]interface{}) *models.Interactive {
	poll := &models.Interactive{Question: getString(nested, "name")}
	if poll.Question == "" {
		poll.Question = getString(nested, "question")
	}

	options, ok := nested["options"].([]interface{})
	if !ok {
		options, _ = nested["values"].([]interface{})
	}
	for _, option := range options {
		switch v := option.(type) {
		case string:
			poll.Options = append(poll.Options, v)
		case map[string]interface{}:
			name := getString(v, "optionName")
			if name == "" {
				name = getString(v, "name")
			}
			if name == "" {
				name = getString(v, "text")
			}
			if name == "" {
				name = fmt.Sprintf("%v", v)
			}
			poll.Options = append(poll.Options, name)
		default:
			poll.Options = append(poll.Options, fmt.Sprintf("%v", v))
		}
	}

	return poll
}

func extractInteractive(nested map[string]interface{}) *models.Interactive {
	ia := &models.Interactive{}

	// Template payloads bury the body under hydratedTemplate.
	if tmpl, ok := nested["hydratedTemplate"].(map[string]interface{}); ok {
		ia.Body = getString(tmpl, "hydratedContentText")
		if buttons, ok := tmpl["hydratedButtons"].([]interface{}); ok {
			ia.Buttons = buttonLabels(buttons)
		}
		return ia
	}

	for _, key := range []string{"selectedDisplayText", "title", "text", "caption"} {
		if v := getString(nested, key); v != "" {
			ia.Body = v
			break
		}
	}
	if ia.Body == "" {
		if body, ok := nested["body"]; ok {
			ia.Body = asString(body)
		}
	}

	if buttons, ok := nested["buttons"].([]interface{}); ok {
		ia.Buttons = buttonLabels(buttons)
	}

	return ia
}

func buttonLabels(buttons []interface{}) []string {
	var labels []string
	for _, button := range buttons {
		b, ok := button.(map[string]interface{})
		if !ok {
			continue
		}
		label := ""
		for _, wrapper := range []string{"quickReplyButton", "urlButton", "callButton", "buttonText"} {
			if inner, ok := b[wrapper].(map[string]interface{}); ok {
				label = getString(inner, "displayText")
				if label == "" {
					label = getString(inner, "text")
				}
				break
			}
		}
		if label == "" {
			label = getString(b, "displayText")
		}
		if label == "" {
			label = getString(b, "text")
		}
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// decodeObject decodes a payload that may be a JSON object or a JSON
// string wrapping one.
func decodeObject(raw string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return obj, true
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		if err := json.Unmarshal([]byte(inner), &obj); err == nil {
			return obj, true
		}
	}

	return nil, false
}

// unquoted returns the payload as display text, unwrapping one level
// of JSON string quoting when present.
func unquoted(raw string) string {
	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err == nil {
		return inner
	}
	return raw
}

// asString coerces a loosely-typed content value to display text. The
// provider nests text under several different field names depending on
// payload vintage.
func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]interface{}:
		for _, key := range []string{"body", "text", "caption", "conversation"} {
			switch inner := val[key].(type) {
			case string:
				if inner != "" {
					return inner
				}
			case map[string]interface{}:
				if s := getString(inner, "body"); s != "" {
					return s
				}
			}
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func getString(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func getFloat(m map[string]interface{}, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
