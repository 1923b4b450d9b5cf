package editbridge

import (
	"context"
	"strings"
)

// Notice is the short notification surfaced after a QuickEdit.
type Notice string

const (
	// NoticeUpdated means the input buffer was replaced with edited text.
	NoticeUpdated Notice = "updated"
	// NoticeFallbackLoaded means the buffer was empty and assistant text
	// was loaded, edited or not, into the buffer.
	NoticeFallbackLoaded Notice = "loaded fallback content"
	// NoticeTimedOut means the editor never finished.
	NoticeTimedOut Notice = "timed out"
	// NoticeLaunchFailed means no editor could be launched.
	NoticeLaunchFailed Notice = "launch failed"
	// NoticeNoChanges means the buffer was left untouched.
	NoticeNoChanges Notice = "no changes"
)

// RoleAssistant marks assistant-authored transcript entries.
const RoleAssistant = "assistant"

// Message is one conversation transcript entry.
type Message struct {
	Role string
	Text string
}

// InputBuffer is the host's editable input field.
type InputBuffer interface {
	Value() string
	SetValue(text string)
}

// Transcript exposes the host's conversation history, oldest first.
type Transcript interface {
	Messages() []Message
}

// QuickEdit is the keybinding-triggered shortcut: it edits the current
// input buffer, or the most recent non-empty assistant text when the buffer
// is empty, fixed to markdown and floating mode. On completion the buffer
// is replaced with the result or left unchanged, and a short notice says
// which.
func QuickEdit(ctx context.Context, bridge *Bridge, buffer InputBuffer, transcript Transcript) (Notice, error) {
	text := buffer.Value()

	fromFallback := false
	if strings.TrimSpace(text) == "" && transcript != nil {
		if fallback, ok := lastAssistantText(transcript.Messages()); ok {
			text = fallback
			fromFallback = true
		}
	}

	out, err := bridge.Edit(ctx, Request{
		Text:      text,
		Purpose:   "quick-edit",
		Floating:  true,
		Extension: "md",
	})
	if err != nil {
		return NoticeLaunchFailed, err
	}

	notice := noticeFor(out, fromFallback)
	if notice == NoticeUpdated || notice == NoticeFallbackLoaded {
		buffer.SetValue(out.Text)
	}
	return notice, nil
}

// noticeFor maps a bridge outcome onto the notice set.
func noticeFor(out Outcome, fromFallback bool) Notice {
	switch out.Reason {
	case ReasonTimeout:
		return NoticeTimedOut
	case ReasonNoInteractiveUI, ReasonZellijLaunchFailed:
		return NoticeLaunchFailed
	case ReasonAborted:
		return NoticeNoChanges
	}

	if out.Cancelled {
		return NoticeNoChanges
	}
	if fromFallback {
		return NoticeFallbackLoaded
	}
	if out.Changed {
		return NoticeUpdated
	}
	return NoticeNoChanges
}

// lastAssistantText scans the transcript backward for the last non-empty
// assistant-authored text.
func lastAssistantText(messages []Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role != RoleAssistant {
			continue
		}
		if strings.TrimSpace(messages[i].Text) == "" {
			continue
		}
		return messages[i].Text, true
	}
	return "", false
}
