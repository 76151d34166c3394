package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts certificate decisions to the organisers' channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) SendCertificateMail(ctx context.Context, name, email string, subject Subject, credentialID string) error {
	message := fmt.Sprintf("🎓 **Certificate issued**\n**Attendee:** %s (%s)\n**%s:** %s\n**Credential:** %s",
		name, email, subjectLabel(subject), subject.Name, credentialID)
	return n.send(ctx, message)
}

func (n *DiscordNotifier) SendNoCertificateMail(ctx context.Context, name, email string, subject Subject) error {
	message := fmt.Sprintf("📋 **Attendance below threshold**\n**Attendee:** %s (%s)\n**%s:** %s",
		name, email, subjectLabel(subject), subject.Name)
	return n.send(ctx, message)
}

func (n *DiscordNotifier) send(ctx context.Context, message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}
	return nil
}

func subjectLabel(s Subject) string {
	if s.Type == SubjectSubEvent {
		return "Session"
	}
	return "Event"
}
