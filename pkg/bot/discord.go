package bot

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/formationbot/pkg/observability"
)

// Intents are the gateway events the bot needs.
const Intents = discordgo.IntentGuildMessages | discordgo.IntentDirectMessages | discordgo.IntentMessageContent

// sender is the part of *discordgo.Session used to reply.
type sender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord connects a Handler to the Discord gateway.
type Discord struct {
	session *discordgo.Session
	handler *Handler
	logger  *log.Logger
}

// NewDiscord creates a bot session for token. Nothing connects until Run.
func NewDiscord(token string, h *Handler, logger *log.Logger) (*Discord, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = Intents
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Discord{session: s, handler: h, logger: logger}, nil
}

// Run opens the gateway connection and serves messages until ctx is done.
func (d *Discord) Run(ctx context.Context) error {
	removeReady := d.session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		d.logger.Info("client ready", "guilds", len(r.Guilds))
	})
	defer removeReady()
	removeMessage := d.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		selfID := ""
		if s.State != nil && s.State.User != nil {
			selfID = s.State.User.ID
		}
		d.onMessage(ctx, s, selfID, m.Message)
	})
	defer removeMessage()

	if err := d.session.Open(); err != nil {
		return err
	}
	d.logger.Info("connected to discord")

	<-ctx.Done()
	d.logger.Info("disconnecting")
	return d.session.Close()
}

// onMessage replies to m with the rendered formations, if any.
func (d *Discord) onMessage(ctx context.Context, s sender, selfID string, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.ID == selfID {
		return
	}
	d.logger.Debug("received message", "channel", m.ChannelID, "author", m.Author.Username, "content", m.Content)

	attachments := d.handler.Handle(ctx, m.Content)
	if len(attachments) == 0 {
		return
	}

	files := make([]*discordgo.File, len(attachments))
	for i, a := range attachments {
		files[i] = &discordgo.File{Name: a.Name, ContentType: a.ContentType, Reader: bytes.NewReader(a.Data)}
	}

	start := time.Now()
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Files:     files,
		Reference: m.Reference(),
	}, discordgo.WithContext(ctx))
	observability.Bot().OnReply(ctx, len(files), time.Since(start), err)
	if err != nil {
		d.logger.Error("failed to send reply", "channel", m.ChannelID, "error", err)
		return
	}
	d.logger.Info("sent formations", "channel", m.ChannelID, "images", len(files))
}
