// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package bot is the Telegram transport. It translates chat updates into
// calls on the mingle engine and keeps per-user conversation state in an
// in-process session store. Telegram user IDs double as profile IDs.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v3"

	"github.com/poiesic/mingle"
	"github.com/poiesic/mingle/core"
	"github.com/poiesic/mingle/discover"
	"github.com/poiesic/mingle/storage"
)

var (
	// ErrTokenRequired indicates that no bot API token was configured.
	ErrTokenRequired = errors.New("telegram token is required")

	// ErrAppRequired indicates that no engine was provided.
	ErrAppRequired = errors.New("mingle app is required")
)

// Bot wires the Telegram API to the engine.
type Bot struct {
	app      *mingle.App
	tb       *tele.Bot
	sessions *Sessions
	notifier *Notifier
	logger   *slog.Logger

	menuKb    *tele.ReplyMarkup
	cardKb    *tele.ReplyMarkup
	profileKb *tele.ReplyMarkup
	photoKb   *tele.ReplyMarkup
	resetKb   *tele.ReplyMarkup
	viewedKb  *tele.ReplyMarkup

	btnBrowse    tele.Btn
	btnMyProfile tele.Btn
	btnViewed    tele.Btn

	btnLike tele.Btn
	btnNext tele.Btn
	btnMenu tele.Btn

	btnEditName   tele.Btn
	btnEditBranch tele.Btn
	btnEditRole   tele.Btn
	btnEditAbout  tele.Btn
	btnEditPhoto  tele.Btn
	btnReset      tele.Btn

	btnAddPhoto  tele.Btn
	btnSkipPhoto tele.Btn

	btnConfirmReset tele.Btn
	btnCancelReset  tele.Btn

	btnClearViewed tele.Btn
}

// New creates a bot over the given engine. The returned bot is not yet
// polling; call Start.
func New(app *mingle.App, config *Config, logger *slog.Logger) (*Bot, error) {
	if app == nil {
		return nil, ErrAppRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Token == "" {
		return nil, ErrTokenRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		app:      app,
		sessions: NewSessions(),
		logger:   logger,
	}

	tb, err := tele.NewBot(tele.Settings{
		Token:     config.Token,
		Poller:    &tele.LongPoller{Timeout: config.PollTimeout},
		ParseMode: tele.ModeHTML,
		OnError: func(err error, c tele.Context) {
			if c != nil && c.Sender() != nil {
				logger.Error("handler failed", "user", c.Sender().ID, "err", err)
				return
			}
			logger.Error("handler failed", "err", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	b.tb = tb

	notifier, err := NewNotifier(config.NotifyWorkers, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}
	b.notifier = notifier

	b.buildKeyboards()
	b.registerHandlers()
	return b, nil
}

// Start begins long-polling. Blocks until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("bot polling started")
	b.tb.Start()
}

// Stop shuts down polling and the notification pool. The engine is not
// closed; that is the caller's responsibility.
func (b *Bot) Stop() {
	b.tb.Stop()
	b.notifier.Close()
	b.logger.Info("bot stopped")
}

func (b *Bot) buildKeyboards() {
	b.menuKb = &tele.ReplyMarkup{}
	b.btnBrowse = b.menuKb.Data("🔍 Browse", "browse")
	b.btnMyProfile = b.menuKb.Data("👤 My profile", "my_profile")
	b.btnViewed = b.menuKb.Data("👀 Viewed", "viewed_list")
	b.menuKb.Inline(
		b.menuKb.Row(b.btnBrowse),
		b.menuKb.Row(b.btnMyProfile, b.btnViewed),
	)

	b.cardKb = &tele.ReplyMarkup{}
	b.btnLike = b.cardKb.Data("❤️ Like", "like")
	b.btnNext = b.cardKb.Data("➡️ Next", "next")
	b.btnMenu = b.cardKb.Data("🏠 Menu", "main_menu")
	b.cardKb.Inline(
		b.cardKb.Row(b.btnLike, b.btnNext),
		b.cardKb.Row(b.btnMenu),
	)

	b.profileKb = &tele.ReplyMarkup{}
	b.btnEditName = b.profileKb.Data("✏️ Name", "edit_name")
	b.btnEditBranch = b.profileKb.Data("✏️ Branch", "edit_branch")
	b.btnEditRole = b.profileKb.Data("✏️ Role", "edit_role")
	b.btnEditAbout = b.profileKb.Data("✏️ About", "edit_about")
	b.btnEditPhoto = b.profileKb.Data("📷 Photo", "edit_photo")
	b.btnReset = b.profileKb.Data("🗑 Delete profile", "reset_profile")
	b.profileKb.Inline(
		b.profileKb.Row(b.btnEditName, b.btnEditBranch),
		b.profileKb.Row(b.btnEditRole, b.btnEditAbout),
		b.profileKb.Row(b.btnEditPhoto),
		b.profileKb.Row(b.btnReset, b.btnMenu),
	)

	b.photoKb = &tele.ReplyMarkup{}
	b.btnAddPhoto = b.photoKb.Data("📷 Add photo", "add_photo")
	b.btnSkipPhoto = b.photoKb.Data("⏭ Skip", "skip_photo")
	b.photoKb.Inline(b.photoKb.Row(b.btnAddPhoto, b.btnSkipPhoto))

	b.resetKb = &tele.ReplyMarkup{}
	b.btnConfirmReset = b.resetKb.Data("✅ Yes, delete", "confirm_reset")
	b.btnCancelReset = b.resetKb.Data("❌ Cancel", "cancel_reset")
	b.resetKb.Inline(b.resetKb.Row(b.btnConfirmReset, b.btnCancelReset))

	b.viewedKb = &tele.ReplyMarkup{}
	b.btnClearViewed = b.viewedKb.Data("🧹 Clear history", "clear_viewed")
	b.viewedKb.Inline(b.viewedKb.Row(b.btnClearViewed, b.btnMenu))
}

func (b *Bot) registerHandlers() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/profile", b.handleMyProfile)
	b.tb.Handle("/reset", b.handleReset)
	b.tb.Handle("/find", b.handleFind)
	b.tb.Handle(tele.OnText, b.handleText)
	b.tb.Handle(tele.OnPhoto, b.handlePhoto)

	b.tb.Handle(&b.btnBrowse, b.handleBrowse)
	b.tb.Handle(&b.btnNext, b.handleBrowse)
	b.tb.Handle(&b.btnLike, b.handleLike)
	b.tb.Handle(&b.btnMenu, b.handleMenu)
	b.tb.Handle(&b.btnMyProfile, b.handleMyProfile)
	b.tb.Handle(&b.btnViewed, b.handleViewed)
	b.tb.Handle(&b.btnClearViewed, b.handleClearViewed)
	b.tb.Handle(&b.btnReset, b.handleReset)
	b.tb.Handle(&b.btnConfirmReset, b.handleConfirmReset)
	b.tb.Handle(&b.btnCancelReset, b.handleMenu)
	b.tb.Handle(&b.btnAddPhoto, b.handleAddPhoto)
	b.tb.Handle(&b.btnSkipPhoto, b.handleSkipPhoto)

	b.tb.Handle(&b.btnEditName, b.editFieldHandler(FieldName))
	b.tb.Handle(&b.btnEditBranch, b.editFieldHandler(FieldBranch))
	b.tb.Handle(&b.btnEditRole, b.editFieldHandler(FieldRole))
	b.tb.Handle(&b.btnEditAbout, b.editFieldHandler(FieldAbout))
	b.tb.Handle(&b.btnEditPhoto, b.editFieldHandler(FieldPhoto))
}

func sender(c tele.Context) core.ID {
	return core.ID(c.Sender().ID)
}

func (b *Bot) handleStart(c tele.Context) error {
	user := sender(c)

	_, err := b.app.Profile(context.Background(), user)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		b.sessions.Update(user, func(s *Session) {
			s.State = Creating{Step: StepName}
			s.Current = 0
		})
		if err := c.Send(msgWelcome); err != nil {
			return err
		}
		return c.Send(msgFormIntro)
	case err != nil:
		return err
	}

	b.sessions.Update(user, func(s *Session) {
		s.State = Idle{}
	})
	return c.Send(msgWelcome, b.menuKb)
}

// handleText routes free text by conversation state: form input while
// creating, a single replacement value while editing, and a hint otherwise.
func (b *Bot) handleText(c tele.Context) error {
	user := sender(c)
	input := strings.TrimSpace(c.Text())

	switch st := b.sessions.Peek(user).State.(type) {
	case Creating:
		if st.Step == StepPhoto {
			return c.Send(msgPhotoOrSkip, b.photoKb)
		}
		next, err := st.Advance(input)
		if err != nil {
			return c.Send(fmt.Sprintf("❌ %s. Try again:", err))
		}
		b.sessions.Update(user, func(s *Session) {
			s.State = next
		})
		if next.Step == StepPhoto {
			return c.Send(msgAskPhoto, b.photoKb)
		}
		return c.Send(stepPrompt(next.Step))

	case Editing:
		if st.Field == FieldPhoto {
			return c.Send(msgPhotoOrSkip)
		}
		if err := ValidateField(st.Field, input); err != nil {
			return c.Send(fmt.Sprintf("❌ %s. Try again:", err))
		}
		return b.saveEdit(c, user, st, input)

	default:
		return c.Send(msgUnexpectedText)
	}
}

func (b *Bot) handlePhoto(c tele.Context) error {
	user := sender(c)
	photo := c.Message().Photo
	if photo == nil {
		return nil
	}

	switch st := b.sessions.Peek(user).State.(type) {
	case Creating:
		if st.Step != StepPhoto {
			return nil
		}
		st.Draft.PhotoRef = photo.FileID
		return b.finishCreation(c, user, st.Draft)
	case Editing:
		if st.Field != FieldPhoto {
			return nil
		}
		return b.saveEdit(c, user, st, photo.FileID)
	default:
		return nil
	}
}

func (b *Bot) handleAddPhoto(c tele.Context) error {
	_ = c.Respond()
	return c.Send(msgSendPhoto)
}

func (b *Bot) handleSkipPhoto(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	st, ok := b.sessions.Peek(user).State.(Creating)
	if !ok || st.Step != StepPhoto {
		return nil
	}
	return b.finishCreation(c, user, st.Draft)
}

func (b *Bot) finishCreation(c tele.Context, user core.ID, draft core.Profile) error {
	draft.Id = user
	if err := b.app.SaveProfile(context.Background(), &draft); err != nil {
		return err
	}
	b.sessions.Update(user, func(s *Session) {
		s.State = Idle{}
	})
	b.logger.Info("profile created", "user", user)
	return c.Send(msgProfileCreated, b.menuKb)
}

func (b *Bot) saveEdit(c tele.Context, user core.ID, st Editing, value string) error {
	profile := st.Prior
	AssignField(&profile, st.Field, value)
	if err := b.app.SaveProfile(context.Background(), &profile); err != nil {
		return err
	}
	b.sessions.Update(user, func(s *Session) {
		s.State = Idle{}
	})
	if err := c.Send(msgEditSaved); err != nil {
		return err
	}
	return b.sendOwnProfile(c, &profile)
}

func (b *Bot) handleBrowse(c tele.Context) error {
	_ = c.Respond()
	return b.showNextCandidate(c)
}

// showNextCandidate advances the viewer's deck. When the deck runs out the
// viewing history is cleared and the user is told the deck restarted; the
// next tap starts a fresh pass.
func (b *Bot) showNextCandidate(c tele.Context) error {
	user := sender(c)
	ctx := context.Background()

	candidate, err := b.app.NextCandidate(ctx, user)
	if errors.Is(err, discover.ErrExhausted) {
		count, cerr := b.app.ProfileCount(ctx)
		if cerr != nil {
			return cerr
		}
		if count <= 1 {
			return c.Send(msgNoProfiles, b.menuKb)
		}
		b.app.ClearViewed(user)
		return c.Send(msgDeckRestarted, b.menuKb)
	}
	if err != nil {
		return err
	}

	b.sessions.Update(user, func(s *Session) {
		s.Current = candidate.Id
	})
	return b.sendCard(c, candidate)
}

func (b *Bot) sendCard(c tele.Context, p *core.Profile) error {
	if p.PhotoRef != "" {
		photo := &tele.Photo{
			File:    tele.File{FileID: p.PhotoRef},
			Caption: formatCard(p),
		}
		return c.Send(photo, b.cardKb)
	}
	return c.Send(formatCard(p), b.cardKb)
}

func (b *Bot) handleLike(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	target := b.sessions.Peek(user).Current
	if target == 0 {
		return c.Send(msgCandidateGone, b.menuKb)
	}

	outcome, err := b.app.RecordInterest(context.Background(), user, target)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Candidate was deleted since it was shown.
		if err := c.Send(msgCandidateGone); err != nil {
			return err
		}
		return b.showNextCandidate(c)
	case err != nil:
		return err
	}

	if outcome.Matched {
		b.notifyMatch(outcome)
	} else {
		if err := c.Send(msgLikeSent); err != nil {
			return err
		}
	}
	return b.showNextCandidate(c)
}

// notifyMatch tells both parties about a mutual match through the worker
// pool, so the like handler never waits on two extra API round trips.
func (b *Bot) notifyMatch(outcome core.MatchOutcome) {
	a, bp := outcome.A, outcome.B
	b.notifier.Dispatch(func() {
		b.sendMatchNotice(a.Id, bp)
	})
	b.notifier.Dispatch(func() {
		b.sendMatchNotice(bp.Id, a)
	})
}

func (b *Bot) sendMatchNotice(to core.ID, other *core.Profile) {
	text := fmt.Sprintf(msgMatchFound, mention(other))
	if _, err := b.tb.Send(tele.ChatID(int64(to)), text); err != nil {
		b.logger.Error("match notification failed", "recipient", to, "err", err)
		return
	}
	b.logger.Info("match notified", "recipient", to, "other", other.Id)
}

func (b *Bot) handleMyProfile(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	profile, err := b.app.Profile(context.Background(), user)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Send(msgProfileNotFound)
	}
	if err != nil {
		return err
	}
	return b.sendOwnProfile(c, profile)
}

func (b *Bot) sendOwnProfile(c tele.Context, p *core.Profile) error {
	if p.PhotoRef != "" {
		photo := &tele.Photo{
			File:    tele.File{FileID: p.PhotoRef},
			Caption: formatOwnProfile(p),
		}
		return c.Send(photo, b.profileKb)
	}
	return c.Send(formatOwnProfile(p), b.profileKb)
}

func (b *Bot) editFieldHandler(field ProfileField) tele.HandlerFunc {
	return func(c tele.Context) error {
		_ = c.Respond()
		user := sender(c)

		profile, err := b.app.Profile(context.Background(), user)
		if errors.Is(err, storage.ErrNotFound) {
			return c.Send(msgProfileNotFound)
		}
		if err != nil {
			return err
		}

		b.sessions.Update(user, func(s *Session) {
			s.State = Editing{Field: field, Prior: *profile}
		})
		return c.Send(editPrompt(field))
	}
}

func (b *Bot) handleReset(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	if _, err := b.app.Profile(context.Background(), user); errors.Is(err, storage.ErrNotFound) {
		return c.Send(msgProfileNotFound)
	} else if err != nil {
		return err
	}
	return c.Send(msgConfirmReset, b.resetKb)
}

func (b *Bot) handleConfirmReset(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	err := b.app.DeleteProfile(context.Background(), user)
	if errors.Is(err, storage.ErrNotFound) {
		return c.Send(msgProfileNotFound)
	}
	if err != nil {
		return err
	}
	b.sessions.Reset(user)
	b.logger.Info("profile deleted", "user", user)
	return c.Send(msgProfileReset + "\n\nSend /start to create a new one.")
}

func (b *Bot) handleMenu(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	b.sessions.Update(user, func(s *Session) {
		s.State = Idle{}
	})
	return c.Send(msgMainMenu, b.menuKb)
}

func (b *Bot) handleViewed(c tele.Context) error {
	_ = c.Respond()
	user := sender(c)

	profiles, err := b.app.ViewedProfiles(context.Background(), user)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return c.Send(msgViewedEmpty, b.menuKb)
	}
	return c.Send(formatViewedList(profiles), b.viewedKb)
}

func (b *Bot) handleClearViewed(c tele.Context) error {
	_ = c.Respond()
	b.app.ClearViewed(sender(c))
	return c.Send(msgViewedCleared, b.menuKb)
}

func (b *Bot) handleFind(c tele.Context) error {
	user := sender(c)

	query := strings.TrimSpace(c.Message().Payload)
	if query == "" {
		return c.Send(msgSearchUsage)
	}

	profiles, err := b.app.SearchProfiles(context.Background(), user, query)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return c.Send(msgSearchEmpty)
	}
	return c.Send(formatSearchResults(profiles), b.menuKb)
}
