package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/timeclock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/service/roster"
	timeclockService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/timeclock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const punchFile = "ID\tName\tDept\tDate\tTime\n" +
	"1\tAna Perez\tOps\t25/06/2024\t08:15\n" +
	"1\tAna Perez\tOps\t25/06/2024\t12:00\n" +
	"1\tAna Perez\tOps\t25/06/2024\t13:20\n" +
	"2\tLuis\tOps\t26/06/2024\t07:58\n"

type envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    json.RawMessage       `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	wage := decimal.NewFromInt(6000)
	employeeRepo := memory.NewEmployeeRepository([]employee.Employee{
		{ID: "emp-1", FullName: "Ana Perez", EmploymentStatus: employee.EmploymentStatusActive, HourlyWage: &wage},
	})
	rosterSvc := roster.NewRosterService(employeeRepo)
	hub := sse.NewHub(10)

	svc := timeclockService.NewTimeclockService(
		timeclockService.NewState(),
		memory.NewResultSetRepository(),
		rosterSvc,
		nil,
		hub,
		timeclockService.NewEngine(timeclockService.DefaultPolicy(), timeclockService.SubstringMatcher{}),
		timeclockService.NewExporter("es", timeclockService.SelectionViolations),
	)

	return NewRouter(
		RouterOptions{AppName: "timeclock-test", Version: "test", Env: "test"},
		NewTimeclockHandler(svc, hub),
		NewEmployeeHandler(rosterSvc),
	)
}

func multipartUpload(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file"))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartUpload(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/timeclock/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doRequest(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeList(t *testing.T, env envelope) timeclock.ListRecordsResponse {
	t.Helper()

	var list timeclock.ListRecordsResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	return list
}

func TestTimeclockHandler_Upload(t *testing.T) {
	router := newTestRouter(t)

	rec := doUpload(t, router, "punches.txt", punchFile)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Processed 3 records. 1 late arrivals and 1 lunch overruns detected.", env.Message)

	var upload timeclock.UploadResponse
	require.NoError(t, json.Unmarshal(env.Data, &upload))
	assert.Equal(t, "punches.txt", upload.SourceFilename)
	assert.Equal(t, 3, upload.Summary.TotalRecords)
	assert.Equal(t, 1, upload.Summary.LateArrivals)
	assert.Equal(t, 1, upload.Summary.LunchViolations)
}

func TestTimeclockHandler_UploadErrors(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantCode int
		wantErr  string
	}{
		{name: "missing file", filename: "", wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
		{name: "unsupported extension", filename: "punches.pdf", content: punchFile, wantCode: http.StatusUnprocessableEntity, wantErr: "VALIDATION_ERROR"},
		{name: "blank file", filename: "punches.txt", content: "  \n\n", wantCode: http.StatusBadRequest, wantErr: "BAD_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t)

			rec := doUpload(t, router, tt.filename, tt.content)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantErr, env.Error.Code)
		})
	}
}

func TestTimeclockHandler_UploadJustOverLimit(t *testing.T) {
	router := newTestRouter(t)

	content := punchFile + strings.Repeat("x", timeclock.MaxUploadSize)
	rec := doUpload(t, router, "punches.txt", content)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", env.Error.Code)
}

func TestTimeclockHandler_ListRecords(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/timeclock/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeList(t, decodeEnvelope(t, rec)).Records)

	require.Equal(t, http.StatusCreated, doUpload(t, router, "punches.txt", punchFile).Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/records?type=late", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeList(t, decodeEnvelope(t, rec))
	assert.Equal(t, timeclock.RecordTypeLate, list.Type)
	require.Len(t, list.Records, 1)
	assert.Equal(t, "Ana Perez", list.Records[0].EmployeeName)
	assert.Equal(t, 15, list.Records[0].LateMinutes)
	assert.Equal(t, 3, list.Summary.TotalRecords)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/records?type=bogus", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTimeclockHandler_Summary(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "punches.txt", punchFile).Code)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/timeclock/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary timeclock.SummaryResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &summary))
	assert.Equal(t, 3, summary.TotalRecords)
	assert.Equal(t, 15, summary.TotalLateMinutes)
	assert.Equal(t, 20, summary.TotalLunchExtraMinutes)
}

func TestTimeclockHandler_FilterAndReset(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doUpload(t, router, "punches.txt", punchFile).Code)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/timeclock/filter", `{"start_date":"2024-06-26","end_date":"2024-06-26"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decodeList(t, decodeEnvelope(t, rec))
	require.Len(t, list.Records, 1)
	assert.Equal(t, "Luis", list.Records[0].EmployeeName)
	require.NotNil(t, list.StartDate)
	assert.Equal(t, "2024-06-26", *list.StartDate)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/records", "")
	assert.Len(t, decodeList(t, decodeEnvelope(t, rec)).Records, 1)

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/timeclock/filter", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list = decodeList(t, decodeEnvelope(t, rec))
	assert.Len(t, list.Records, 3)
	assert.Nil(t, list.StartDate)
}

func TestTimeclockHandler_FilterErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/timeclock/filter", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/v1/timeclock/filter", `{"start_date":"2024-06-27","end_date":"2024-06-26"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "end_date")
}

func TestTimeclockHandler_Export(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/timeclock/export", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusCreated, doUpload(t, router, "punches.txt", punchFile).Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"attendance_report_")
	assert.Contains(t, rec.Body.String(), "LATE ARRIVAL")

	rows, err := timeclockService.ParseExportCategories(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/export?format=pdf", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTimeclockHandler_SourceFileWithoutArchive(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/timeclock/source", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	require.Equal(t, http.StatusCreated, doUpload(t, router, "punches.txt", punchFile).Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/timeclock/source", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "The source punch file is not available", decodeEnvelope(t, rec).Error.Message)
}

func TestTimeclockHandler_Events(t *testing.T) {
	router := newTestRouter(t)
	server := httptest.NewServer(router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/timeclock/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readEvent := func() string {
		for lines.Scan() {
			if name, ok := strings.CutPrefix(lines.Text(), "event: "); ok {
				return name
			}
		}
		return ""
	}

	require.Equal(t, "connected", readEvent())

	body, contentType := multipartUpload(t, "punches.txt", punchFile)
	uploadResp, err := http.Post(server.URL+"/api/v1/timeclock/upload", contentType, body)
	require.NoError(t, err)
	uploadResp.Body.Close()
	require.Equal(t, http.StatusCreated, uploadResp.StatusCode)

	assert.Equal(t, timeclockService.EventProcessed, readEvent())
}

func TestEmployeeHandler_Roster(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/v1/employees/roster", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var roster employee.RosterResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &roster))
	assert.Equal(t, 1, roster.Total)
	assert.Equal(t, "Ana Perez", roster.Employees[0].FullName)
	require.NotNil(t, roster.Employees[0].HourlyWage)
	assert.True(t, roster.Employees[0].HourlyWage.Equal(decimal.NewFromInt(6000)))

	rec = doRequest(t, router, http.MethodPost, "/api/v1/employees/roster/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Employee roster refreshed", decodeEnvelope(t, rec).Message)
}
