package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/serverutils"
	"ai-crm-be/pkg/crmerr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubContactService struct {
	contacts   []*dto.ContactResponse
	err        error
	lastUpdate *dto.UpdateContactRequest
	lastText   string
	deleted    []uuid.UUID
}

func (s *stubContactService) List(ctx context.Context) (*dto.ContactListResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ContactListResponse{Contacts: s.contacts, Total: len(s.contacts)}, nil
}

func (s *stubContactService) Reload(ctx context.Context) (*dto.ContactListResponse, error) {
	return s.List(ctx)
}

func (s *stubContactService) Show(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error) {
	for _, c := range s.contacts {
		if c.Id == id {
			return c, nil
		}
	}
	return nil, crmerr.Newf(crmerr.KindNotFound, "find contact", "contact %s not found", id)
}

func (s *stubContactService) Extract(ctx context.Context, req *dto.ExtractContactsRequest) (*dto.ExtractContactsResponse, error) {
	s.lastText = req.Text
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ExtractContactsResponse{Created: s.contacts, Count: len(s.contacts)}, nil
}

func (s *stubContactService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateContactRequest) (*dto.ContactResponse, error) {
	s.lastUpdate = req
	return s.Show(ctx, id)
}

func (s *stubContactService) CyclePriority(ctx context.Context, id uuid.UUID) (*dto.ContactResponse, error) {
	return s.Show(ctx, id)
}

func (s *stubContactService) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *stubContactService) History(ctx context.Context, id uuid.UUID) ([]*dto.ContactHistoryResponse, error) {
	return []*dto.ContactHistoryResponse{}, s.err
}

func (s *stubContactService) FormattedNotes(ctx context.Context, id uuid.UUID) (*dto.FormattedNotesResponse, error) {
	return &dto.FormattedNotesResponse{ContactId: id}, s.err
}

func (s *stubContactService) Health() *dto.HealthResponse {
	return &dto.HealthResponse{Status: "ok", ContactsLoaded: true, Contacts: len(s.contacts)}
}

func (s *stubContactService) HandleRemoteChange(ctx context.Context, message []byte) {}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(svc *stubContactService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(nil))
	api := app.Group("/api")
	NewContactController(svc, "").RegisterRoutes(api)
	NewSystemController(svc, func() int { return 3 }).RegisterRoutes(api)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func TestListContacts(t *testing.T) {
	svc := &stubContactService{contacts: []*dto.ContactResponse{{Id: uuid.New(), Name: "Jane", KeyPoints: []string{}}}}
	status, env := call(t, newTestApp(svc), "GET", "/api/contact/v1", "")

	assert.Equal(t, 200, status)
	assert.True(t, env.Success)
	var list dto.ContactListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "Jane", list.Contacts[0].Name)
}

func TestListSchemaMissingCarriesRemediation(t *testing.T) {
	svc := &stubContactService{err: &crmerr.Error{Kind: crmerr.KindBackendUnavailable, Schema: crmerr.SchemaTableMissing, Op: "load contacts"}}
	status, env := call(t, newTestApp(svc), "GET", "/api/contact/v1", "")

	assert.Equal(t, 503, status)
	var remediation serverutils.Remediation
	require.NoError(t, json.Unmarshal(env.Data, &remediation))
	assert.Equal(t, crmerr.SchemaTableMissing, remediation.Issue)
	assert.Contains(t, remediation.Script, "CREATE TABLE")
}

func TestExtractValidatesBody(t *testing.T) {
	svc := &stubContactService{}
	app := newTestApp(svc)

	status, _ := call(t, app, "POST", "/api/contact/v1/extract", `{"text":""}`)
	assert.Equal(t, 400, status)

	status, env := call(t, app, "POST", "/api/contact/v1/extract", `{"text":"**Jane** CTO"}`)
	assert.Equal(t, 201, status)
	assert.True(t, env.Success)
	assert.Equal(t, "**Jane** CTO", svc.lastText)
}

func TestExtractFormatError(t *testing.T) {
	svc := &stubContactService{err: crmerr.Newf(crmerr.KindExtractionFormatError, "parse extraction", "not an array")}
	status, env := call(t, newTestApp(svc), "POST", "/api/contact/v1/extract", `{"text":"x"}`)

	assert.Equal(t, 422, status)
	assert.False(t, env.Success)
}

func TestUpdateDistinguishesNullFromAbsent(t *testing.T) {
	id := uuid.New()
	svc := &stubContactService{contacts: []*dto.ContactResponse{{Id: id, Name: "Jane"}}}

	status, _ := call(t, newTestApp(svc), "PATCH", "/api/contact/v1/"+id.String(), `{"action_tag":null,"priority":2}`)
	require.Equal(t, 200, status)

	require.NotNil(t, svc.lastUpdate)
	assert.True(t, svc.lastUpdate.ActionTag.Set)
	assert.Nil(t, svc.lastUpdate.ActionTag.Value)
	assert.Equal(t, 2, *svc.lastUpdate.Priority.Value)
	assert.False(t, svc.lastUpdate.Notes.Set)
}

func TestBadIdAndUnknownContact(t *testing.T) {
	app := newTestApp(&stubContactService{})

	status, _ := call(t, app, "GET", "/api/contact/v1/not-a-uuid", "")
	assert.Equal(t, 400, status)

	status, env := call(t, app, "POST", "/api/contact/v1/"+uuid.NewString()+"/priority/cycle", "")
	assert.Equal(t, 404, status)
	assert.Contains(t, env.Message, "not found")
}

func TestDeleteContact(t *testing.T) {
	svc := &stubContactService{}
	id := uuid.New()

	status, env := call(t, newTestApp(svc), "DELETE", "/api/contact/v1/"+id.String(), "")
	assert.Equal(t, 200, status)
	assert.True(t, env.Success)
	assert.Equal(t, []uuid.UUID{id}, svc.deleted)
}

func TestHealthAndRemediation(t *testing.T) {
	app := newTestApp(&stubContactService{})

	status, env := call(t, app, "GET", "/api/health", "")
	assert.Equal(t, 200, status)
	var health dto.HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, 3, health.LiveClients)

	status, _ = call(t, app, "GET", "/api/schema/v1/remediation/action_tag_column_missing", "")
	assert.Equal(t, 200, status)

	status, _ = call(t, app, "GET", "/api/schema/v1/remediation/nope", "")
	assert.Equal(t, 404, status)
}
