package communication

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	channels []string
	err      error
}

func (f *fakePoster) PostMessage(channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.channels = append(f.channels, channelID)
	return channelID, "1", f.err
}

func TestSlackRoutesByChannel(t *testing.T) {
	poster := &fakePoster{}
	s := &Slack{client: poster, options: SlackOption{InfoChannelID: "C-INFO", ErrorChannelID: "C-ERR"}}

	require.NoError(t, s.Info("digest ready"))
	require.NoError(t, s.Error("digest failed"))

	assert.Equal(t, []string{"C-INFO", "C-ERR"}, poster.channels)
}

func TestSlackSkipsUnsetChannelAndWrapsErrors(t *testing.T) {
	poster := &fakePoster{err: errors.New("channel_not_found")}
	s := &Slack{client: poster, options: SlackOption{InfoChannelID: "C-INFO"}}

	assert.NoError(t, s.Error("nobody listens"))
	assert.Empty(t, poster.channels)
	assert.ErrorContains(t, s.Info("x"), "failed to post message to Slack: channel_not_found")
}

func TestBuildEmailBuffer(t *testing.T) {
	buf, err := BuildEmailBuffer(&EmailInfo{
		From:    "reports@example.com",
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Weekly timesheet summary",
		Text:    "Attached.",
		Attachments: []Attachment{
			{Filename: "summary.csv", ContentType: "text/csv", Content: []byte("Metric,Value\n")},
		},
	})
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "From: reports@example.com\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Subject: Weekly timesheet summary\r\n")
	assert.Contains(t, raw, "Content-Type: multipart/mixed; boundary=")
	assert.Contains(t, raw, `attachment; filename="summary.csv"`)
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("Metric,Value\n")))
	assert.NotContains(t, raw, "text/html")
}

func TestBuildEmailBufferNeedsRecipients(t *testing.T) {
	_, err := BuildEmailBuffer(&EmailInfo{From: "reports@example.com"})
	assert.Error(t, err)
}

type fakeSES struct {
	sent int
}

func (f *fakeSES) SendRawEmail(_ context.Context, _ *ses.SendRawEmailInput, _ ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.sent++
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestMailerSend(t *testing.T) {
	client := &fakeSES{}
	m := &Mailer{client: client}

	id, err := m.Send(context.Background(), &EmailInfo{From: "r@example.com", To: []string{"a@example.com"}, Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, 1, client.sent)
}
