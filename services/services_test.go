package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var testMessage = ContactMessage{
	Name:    "Grace",
	Email:   "grace@example.com",
	Subject: "Hello",
	Message: "Let's talk.",
}

func TestContactEmail(t *testing.T) {
	email := ContactEmail(defaultFromEmail, "owner@example.com", testMessage)

	assert.Equal(t, "Portfolio Contact <onboarding@resend.dev>", email.From)
	assert.Equal(t, []string{"owner@example.com"}, email.To)
	assert.Equal(t, "New Contact Form Submission: Hello", email.Subject)
	assert.Equal(t, "grace@example.com", email.ReplyTo)
	assert.Contains(t, email.Text, "Name: Grace\nEmail: grace@example.com\nSubject: Hello\n\nMessage:\nLet's talk.")
	assert.Empty(t, email.Html)
}

func TestContactMailerSend(t *testing.T) {
	var received ResendEmailRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	mailer := NewContactMailer(map[string]string{
		"RESEND_API_KEY":    "re_test",
		"RESEND_ENDPOINT":   server.URL,
		"CONTACT_RECIPIENT": "owner@example.com",
	})

	body, err := mailer.Send(context.Background(), testMessage)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"email_123"}`, string(body))
	assert.Equal(t, []string{"owner@example.com"}, received.To)
	assert.Equal(t, "grace@example.com", received.ReplyTo)
}

func TestContactMailerMissingKey(t *testing.T) {
	mailer := NewContactMailer(map[string]string{"CONTACT_RECIPIENT": "owner@example.com"})

	_, err := mailer.Send(context.Background(), testMessage)
	require.Error(t, err)
	assert.Equal(t, "RESEND_API_KEY is not defined", err.Error())
}

func TestContactMailerUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer server.Close()

	mailer := NewContactMailer(map[string]string{
		"RESEND_API_KEY":    "re_test",
		"RESEND_ENDPOINT":   server.URL,
		"CONTACT_RECIPIENT": "owner@example.com",
	})

	_, err := mailer.Send(context.Background(), testMessage)
	require.Error(t, err)
	assert.True(t, errs.IsUpstreamError(err))
	assert.Contains(t, err.Error(), "Invalid from address")
}

type fakeMessages struct {
	params []*openapi.CreateMessageParams
	err    error
}

func (f *fakeMessages) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = append(f.params, params)
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestSMSNotifier(t *testing.T) {
	messages := &fakeMessages{}
	notifier := NewSMSNotifierWith(messages, "+15550000000", "+15551111111")

	require.NoError(t, notifier.NotifyContact(testMessage))
	require.Len(t, messages.params, 1)
	assert.Equal(t, "+15551111111", *messages.params[0].To)
	assert.Equal(t, "+15550000000", *messages.params[0].From)
	assert.Contains(t, *messages.params[0].Body, "Contact from Grace <grace@example.com>: Hello")

	messages.err = errors.New("twilio down")
	assert.Error(t, notifier.NotifyContact(testMessage))
}

func TestSMSNotifierDisabled(t *testing.T) {
	notifier := NewSMSNotifier(map[string]string{"TWILIO_ACCOUNT_SID": "AC123"})
	assert.Nil(t, notifier)
	assert.NoError(t, notifier.NotifyContact(testMessage))
}

func TestContactSMSTruncates(t *testing.T) {
	long := testMessage
	long.Message = strings.Repeat("x", 1000)

	body := ContactSMS(long)
	assert.Len(t, []rune(body), maxSMSLength)
	assert.True(t, strings.HasSuffix(body, "..."))
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestMediaStorageUpload(t *testing.T) {
	putter := &fakePutter{}
	storage := NewMediaStorageWith(putter, "media", "https://cdn.example.com/")

	url, err := storage.Upload(context.Background(), "uploads/a.png", "image/png", bytes.NewReader([]byte("png")), 3)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", url)
	assert.Equal(t, "media", *putter.input.Bucket)
	assert.Equal(t, "uploads/a.png", *putter.input.Key)
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Equal(t, int64(3), *putter.input.ContentLength)
	assert.Equal(t, []byte("png"), putter.body)
	assert.Equal(t, "aws-s3", storage.Provider())
}

func TestNewMediaStorageWithoutBucket(t *testing.T) {
	storage, err := NewMediaStorage(context.Background(), map[string]string{})
	require.NoError(t, err)
	assert.Nil(t, storage)
}
