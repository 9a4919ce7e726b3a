package content

import (
	"wachat/internal/models"
)

const (
	previewTextMaxLen    = 80
	previewCaptionMaxLen = 40
)

// Preview reduces a parsed message to a single-line string for chat
// list rows. Caption and text cuts are hard caps with no ellipsis.
func Preview(pm models.ParsedMessage) string {
	switch pm.Kind {
	case models.KindImage:
		return withCaption("📷 Photo", pm.Caption)
	case models.KindVideo:
		return withCaption("🎬 Video", pm.Caption)
	case models.KindAudio:
		return "🎤 Voice message"
	case models.KindDocument:
		return "📎 " + pm.FileName
	case models.KindSticker:
		return "🏷️ Sticker"
	case models.KindLocation:
		name := "Location"
		if pm.Location != nil && pm.Location.Name != "" {
			name = pm.Location.Name
		}
		return "📍 " + name
	case models.KindContact:
		name := "Contact"
		if pm.Contact != nil && pm.Contact.Name != "" {
			name = pm.Contact.Name
		}
		return "👤 " + name
	case models.KindInteractive:
		if pm.Interactive != nil && pm.Interactive.Body != "" {
			return pm.Interactive.Body
		}
		return "📋 Interactive"
	case models.KindPoll:
		question := ""
		if pm.Interactive != nil {
			question = pm.Interactive.Question
		}
		return "📊 " + question
	case models.KindReaction:
		if pm.TextContent != "" {
			return pm.TextContent
		}
		return "👍"
	default:
		return capRunes(pm.TextContent, previewTextMaxLen)
	}
}

// kindLabel is the short label used for quoted-reply previews; text
// payloads are handled by the caller.
func kindLabel(pm models.ParsedMessage) string {
	switch pm.Kind {
	case models.KindImage:
		return "📷 Photo"
	case models.KindVideo:
		return "🎬 Video"
	case models.KindAudio:
		return "🎤 Voice message"
	case models.KindDocument:
		return "📎 Document"
	case models.KindSticker:
		return "🏷️ Sticker"
	case models.KindLocation:
		return "📍 Location"
	case models.KindContact:
		return "👤 Contact"
	case models.KindPoll:
		return "📊 Poll"
	case models.KindInteractive:
		return "📋 Interactive"
	case models.KindReaction:
		return "👍"
	default:
		return ""
	}
}

func withCaption(label, caption string) string {
	if caption == "" {
		return label
	}
	return label + ": " + capRunes(caption, previewCaptionMaxLen)
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
