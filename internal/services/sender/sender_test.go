package sender

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/bakery-admin/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
	written []byte
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	m.written = append(m.written, p...)
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func happyClient(t *MockTransport) (*MockSMTPClient, *MockSMTPWriter) {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)
	t.On("GetSMTPUser").Return("noreply@bakery.com")
	t.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "noreply@bakery.com").Return(nil).Once()
	mockClient.On("Rcpt", mock.AnythingOfType("string")).Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
	return mockClient, mockWriter
}

func TestSendWelcome(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport) *MockSMTPWriter
		expectedError bool
		wantInBody    []string
		notInBody     []string
	}{
		{
			name: "success - welcome email with one-time password",
			body: []byte(`{"event_id":"e-1","user_uid":"uid-1","email":"a@x.com","full_name":"Ana Silva","plan":"Mensal","one_time_password":"Xy1!Ab2@Cd3#"}`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				_, w := happyClient(tr)
				return w
			},
			expectedError: false,
			wantInBody:    []string{"Ana Silva", "Mensal", "Xy1!Ab2@Cd3#", "temporary password"},
		},
		{
			name: "success - welcome email without generated password",
			body: []byte(`{"event_id":"e-2","user_uid":"uid-2","email":"b@x.com","full_name":"Bruno Costa","plan":"Anual"}`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				_, w := happyClient(tr)
				return w
			},
			expectedError: false,
			wantInBody:    []string{"Bruno Costa", "Anual"},
			notInBody:     []string{"temporary password"},
		},
		{
			name: "error - malformed event body",
			body: []byte(`{not json`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				return nil
			},
			expectedError: true,
		},
		{
			name: "error - SMTP connection failed",
			body: []byte(`{"event_id":"e-3","user_uid":"uid-3","email":"c@x.com","full_name":"Clara Lima","plan":"Mensal"}`),
			setupMocks: func(tr *MockTransport) *MockSMTPWriter {
				tr.On("GetSMTPUser").Return("noreply@bakery.com")
				tr.On("Connect").Return(nil, errors.New("dial tcp: connection refused")).Once()
				return nil
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			writer := tt.setupMocks(transport)
			svc := NewService(transport, newNoopLogger(), "Bakery Manager")

			err := svc.SendWelcome(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			sent := string(writer.written)
			for _, fragment := range tt.wantInBody {
				assert.True(t, strings.Contains(sent, fragment), "expected %q in email", fragment)
			}
			for _, fragment := range tt.notInBody {
				assert.False(t, strings.Contains(sent, fragment), "did not expect %q in email", fragment)
			}
			transport.AssertExpectations(t)
		})
	}
}

func TestSendAccountClosed(t *testing.T) {
	transport := new(MockTransport)
	_, writer := happyClient(transport)
	svc := NewService(transport, newNoopLogger(), "Bakery Manager")

	err := svc.SendAccountClosed([]byte(`{"event_id":"e-9","user_uid":"uid-1","email":"a@x.com"}`))

	assert.NoError(t, err)
	sent := string(writer.written)
	assert.True(t, strings.Contains(sent, "To: a@x.com"))
	assert.True(t, strings.Contains(sent, "has been closed"))
	transport.AssertExpectations(t)
}

func TestSendAccountClosed_MalformedBody(t *testing.T) {
	transport := new(MockTransport)
	svc := NewService(transport, newNoopLogger(), "Bakery Manager")

	err := svc.SendAccountClosed([]byte(`broken`))
	assert.Error(t, err)
	transport.AssertNotCalled(t, "Connect")
}
