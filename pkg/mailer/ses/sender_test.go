package ses_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailrelay/pkg/mailer"
	"github.com/dmitrymomot/mailrelay/pkg/mailer/ses"
)

type mockClient struct {
	err       error
	calls     int
	lastInput *sesv2.SendEmailInput
}

func (m *mockClient) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	m.calls++
	m.lastInput = params
	if m.err != nil {
		return nil, m.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("ses-id")}, nil
}

func testMessage(t *testing.T) *mailer.Message {
	t.Helper()
	msg, err := mailer.Assemble(mailer.Draft{
		FromName:  "Alice",
		FromEmail: "alice@example.com",
		ToName:    "Bob",
		ToEmail:   "bob@example.org",
		Subject:   "Hi",
		HTML:      "<h1>Hi</h1>",
		Attachments: []mailer.Attachment{
			{Filename: "a.txt", ContentType: "text/plain", Content: []byte("attached")},
		},
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	return msg
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	s := ses.NewWithClient(client, "tracking")

	msg := testMessage(t)
	require.NoError(t, s.Send(context.Background(), msg))
	require.Equal(t, 1, client.calls)

	in := client.lastInput
	assert.Equal(t, "alice@example.com", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"bob@example.org"}, in.Destination.ToAddresses)
	assert.Equal(t, "tracking", aws.ToString(in.ConfigurationSetName))
	require.NotNil(t, in.Content.Raw)
	assert.Nil(t, in.Content.Simple)

	raw := in.Content.Raw.Data
	assert.True(t, bytes.Contains(raw, []byte("Subject: Hi")))
	assert.True(t, bytes.Contains(raw, []byte("multipart/mixed")))
	assert.True(t, bytes.Contains(raw, []byte(msg.MessageID)))
}

func TestSender_Send_NoConfigurationSet(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	require.NoError(t, ses.NewWithClient(client, "").Send(context.Background(), testMessage(t)))
	assert.Nil(t, client.lastInput.ConfigurationSetName)
}

func TestSender_Send_ErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	cause := errors.New("MessageRejected: Email address is not verified")
	client := &mockClient{err: cause}

	err := ses.NewWithClient(client, "").Send(context.Background(), testMessage(t))
	require.ErrorIs(t, err, cause)
	assert.Equal(t, 1, client.calls)
}

func TestSender_Send_InvalidMessage(t *testing.T) {
	t.Parallel()

	client := &mockClient{}
	err := ses.NewWithClient(client, "").Send(context.Background(), &mailer.Message{})
	require.ErrorIs(t, err, mailer.ErrEmptyMessage)
	assert.Zero(t, client.calls)
}
