package bot

import (
	"fmt"
	"strings"

	"github.com/poiesic/mingle/core"
)

// User-facing copy. Kept here so handlers stay free of literals.
const (
	msgWelcome         = "👋 Welcome! This bot helps colleagues across branches find each other."
	msgFormIntro       = "📝 Let's fill out your profile!\n\nWhat's your name?"
	msgProfileCreated  = "✅ Your profile is ready!"
	msgProfileNotFound = "❌ You don't have a profile yet. Send /start to create one."
	msgProfileReset    = "🗑 Your profile has been deleted."
	msgNoProfiles      = "😔 No other profiles yet. Check back later!"
	msgDeckRestarted   = "🎉 You've seen everyone! The deck has been reshuffled. Tap 🔍 Browse to go again."
	msgLikeSent        = "✉️ Interest sent. If it's mutual, you'll both hear about it!"
	msgMatchFound      = "🎉 It's a match! Say hello: %s"
	msgMainMenu        = "🏠 Main menu"
	msgCandidateGone   = "❌ That profile is no longer available. Try again."
	msgAskBranch       = "🏢 Which branch or department are you in?"
	msgAskRole         = "💼 What's your role?"
	msgAskAbout        = "📝 Tell us about your interests, skills and goals (free text):"
	msgAskPhoto        = "📷 Want to add a photo to your profile?"
	msgSendPhoto       = "📷 Send your photo:"
	msgPhotoOrSkip     = "❌ Please send a photo or tap Skip"
	msgConfirmReset    = "⚠️ Delete your profile? This cannot be undone!"
	msgViewedEmpty     = "👀 You haven't browsed anyone yet.\n\nTap 🔍 Browse to get started!"
	msgViewedCleared   = "✅ Browsing history cleared! Everyone is back in the deck."
	msgSearchUsage     = "Usage: /find <keywords>\nExample: /find designer berlin"
	msgSearchEmpty     = "🔎 Nothing found. Try different keywords."
	msgEditSaved       = "✅ Profile updated."
	msgUnexpectedText  = "Send /start to open the menu."
)

// stepPrompt returns the question for the next form step.
func stepPrompt(step FormStep) string {
	switch step {
	case StepName:
		return msgFormIntro
	case StepBranch:
		return msgAskBranch
	case StepRole:
		return msgAskRole
	case StepAbout:
		return msgAskAbout
	default:
		return msgAskPhoto
	}
}

// editPrompt returns the prompt for replacing a single field.
func editPrompt(field ProfileField) string {
	switch field {
	case FieldName:
		return "✏️ Send a new name:"
	case FieldBranch:
		return "✏️ Send a new branch:"
	case FieldRole:
		return "✏️ Send a new role:"
	case FieldAbout:
		return "✏️ Send a new about text:"
	default:
		return msgSendPhoto
	}
}

// mention renders a clickable reference to a user.
func mention(p *core.Profile) string {
	return fmt.Sprintf(`<a href="tg://user?id=%d">%s</a>`, p.Id, escape(p.Name))
}

// formatCard renders one profile card.
func formatCard(p *core.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>%s</b>\n", escape(p.Name))
	fmt.Fprintf(&b, "🏢 Branch: %s\n", escape(p.Branch))
	fmt.Fprintf(&b, "💼 Role: %s\n", escape(p.Role))
	fmt.Fprintf(&b, "📝 About: %s", escape(p.About))
	return b.String()
}

// formatOwnProfile renders the user's own profile view.
func formatOwnProfile(p *core.Profile) string {
	return "👤 <b>Your profile</b>\n\n" + strings.TrimPrefix(formatCard(p), "👤 ")
}

// formatViewedList renders the browsing history, one numbered entry per
// profile, about text truncated.
func formatViewedList(profiles []*core.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👀 <b>Browsed profiles</b> (%d):\n\n", len(profiles))
	for i, p := range profiles {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n", i+1, escape(p.Name))
		fmt.Fprintf(&b, "   🏢 %s | 💼 %s\n", escape(p.Branch), escape(p.Role))
		fmt.Fprintf(&b, "   📝 %s\n\n", escape(truncate(p.About, 50)))
	}
	return b.String()
}

// formatSearchResults renders a ranked result list.
func formatSearchResults(profiles []*core.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 <b>Found</b> (%d):\n\n", len(profiles))
	for i, p := range profiles {
		fmt.Fprintf(&b, "%d. <b>%s</b> — %s, %s\n", i+1, escape(p.Name), escape(p.Branch), escape(p.Role))
		fmt.Fprintf(&b, "   📝 %s\n\n", escape(truncate(p.About, 50)))
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
