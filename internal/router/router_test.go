package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carecircle/internal/domain/circle"
	"carecircle/internal/router"
)

func TestHTTP_EndToEnd_CircleScopes(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"
	memberID := "member-1"

	// 1) Owner crea el recipient
	recipientID := createRecipient(t, ts.URL, ownerID, map[string]any{
		"name":     "Margaret Johnson",
		"timezone": "Africa/Johannesburg",
	})

	// 2) Sin claims => 401
	{
		st, _ := doReq(t, ts.URL, "GET", "/recipients/"+recipientID, "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without user, got %d", st)
		}
	}

	// 3) Miembro NO puede ver perfil aún
	{
		st, _ := doReq(t, ts.URL, "GET", "/recipients/"+recipientID, memberID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before membership, got %d", st)
		}
	}

	// 4) Owner invita con scopes de lectura + updates
	membershipID := inviteMember(t, ts.URL, ownerID, recipientID, memberID, []string{
		string(circle.ScopeRecipientRead),
		string(circle.ScopeUpdatesRead),
		string(circle.ScopeUpdatesPost),
		string(circle.ScopeVisitsRead),
		string(circle.ScopeDocumentsRead),
	})

	// 5) Invitación pendiente todavía no da acceso
	{
		st, _ := doReq(t, ts.URL, "GET", "/recipients/"+recipientID, memberID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 with pending membership, got %d", st)
		}
	}

	// 6) Miembro acepta
	{
		st, body := doReq(t, ts.URL, "POST", "/memberships/"+membershipID+"/accept", memberID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 accept, got %d body=%s", st, string(body))
		}
	}

	// 7) Ya ve el perfil y aparece en /me/recipients
	{
		st, body := doReq(t, ts.URL, "GET", "/recipients/"+recipientID, memberID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get recipient by member, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/me/recipients", memberID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 shared recipients, got %d body=%s", st, string(body))
		}
		var shared []map[string]any
		_ = json.Unmarshal(body, &shared)
		if len(shared) != 1 {
			t.Fatalf("expected 1 shared recipient, got %d body=%s", len(shared), string(body))
		}
	}

	// 8) Sin recipient:edit_profile no puede editar
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/recipients/"+recipientID, memberID, map[string]any{"name": "x"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 patch without scope, got %d", st)
		}
	}

	// 9) Sin tasks:read no ve tareas
	{
		st, _ := doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/tasks", memberID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 tasks without scope, got %d", st)
		}
	}

	// 10) Miembro publica un update => el owner recibe una notificación
	{
		st, body := doReq(t, ts.URL, "POST", "/recipients/"+recipientID+"/updates", memberID, map[string]any{
			"content": "Mom had a good day today",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 post update, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/me/notifications?unread=true", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 notifications, got %d body=%s", st, string(body))
		}
		var items []struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].Type != "update" {
			t.Fatalf("expected 1 update notification for owner, got body=%s", string(body))
		}

		// el autor no se notifica a sí mismo
		st, body = doReq(t, ts.URL, "GET", "/me/notifications", memberID, nil)
		if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
			t.Fatalf("expected no notifications for author, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/me/activity", memberID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), "update") {
			t.Fatalf("expected activity entry for author, got %d body=%s", st, string(body))
		}
	}

	// 11) Owner revoca => el miembro pierde acceso
	{
		st, body := doReq(t, ts.URL, "POST", "/memberships/"+membershipID+"/revoke", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoke, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/updates", memberID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 after revoke, got %d", st)
		}
	}
}

func TestHTTP_VisitsCalendarAndDashboard(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	ownerID := "owner-1"
	recipientID := createRecipient(t, ts.URL, ownerID, map[string]any{"name": "Margaret Johnson"})

	tomorrow := time.Now().UTC().AddDate(0, 0, 1)

	// hora inválida => 400
	{
		st, _ := doReq(t, ts.URL, "POST", "/recipients/"+recipientID+"/visits", ownerID, map[string]any{
			"visitor_name": "Robert Garcia",
			"date":         tomorrow.Format("2006-01-02"),
			"start_time":   "25:00",
			"end_time":     "11:00",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid time, got %d", st)
		}
	}

	{
		st, body := doReq(t, ts.URL, "POST", "/recipients/"+recipientID+"/visits", ownerID, map[string]any{
			"visitor_name": "Robert Garcia",
			"date":         tomorrow.Format("2006-01-02"),
			"start_time":   "10:00",
			"end_time":     "11:00",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 schedule visit, got %d body=%s", st, string(body))
		}
	}

	{
		path := "/recipients/" + recipientID + "/calendar?year=" + tomorrow.Format("2006") + "&month=" + tomorrow.Format("1")
		st, body := doReq(t, ts.URL, "GET", path, ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 calendar, got %d body=%s", st, string(body))
		}
		var cal struct {
			LeadingBlanks int `json:"leading_blanks"`
			DaysInMonth   int `json:"days_in_month"`
			Cells         []struct {
				Day    int              `json:"day"`
				Visits []map[string]any `json:"visits"`
			} `json:"cells"`
		}
		_ = json.Unmarshal(body, &cal)
		if cal.DaysInMonth < 28 || len(cal.Cells) != cal.LeadingBlanks+cal.DaysInMonth {
			t.Fatalf("unexpected calendar shape body=%s", string(body))
		}
		cell := cal.Cells[cal.LeadingBlanks+tomorrow.Day()-1]
		if cell.Day != tomorrow.Day() || len(cell.Visits) != 1 {
			t.Fatalf("expected 1 visit on day %d, got cell=%+v", tomorrow.Day(), cell)
		}
	}

	{
		st, _ := doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/calendar?month=13", ownerID, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 month out of range, got %d", st)
		}
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/dashboard", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 dashboard, got %d body=%s", st, string(body))
		}
		var dash struct {
			NextVisit *struct {
				VisitorName string `json:"visitor_name"`
			} `json:"next_visit"`
		}
		_ = json.Unmarshal(body, &dash)
		if dash.NextVisit == nil || dash.NextVisit.VisitorName != "Robert Garcia" {
			t.Fatalf("expected next visit on dashboard, body=%s", string(body))
		}
	}
}

func TestHTTP_ScheduleValidationMessages(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	ownerID := "owner-1"
	recipientID := createRecipient(t, ts.URL, ownerID, map[string]any{"name": "Margaret Johnson"})
	date := time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")

	// fin antes de inicio => mensaje específico
	{
		st, body := doReq(t, ts.URL, "POST", "/recipients/"+recipientID+"/visits", ownerID, map[string]any{
			"visitor_name": "Emma Wilson",
			"date":         date,
			"start_time":   "13:30",
			"end_time":     "11:00",
		})
		if st != http.StatusBadRequest || !strings.Contains(string(body), "end_time must be after start_time") {
			t.Fatalf("expected 400 end before start, got %d body=%s", st, string(body))
		}
	}

	// hora con espacios: validator y servicio recortan igual
	{
		st, body := doReq(t, ts.URL, "POST", "/recipients/"+recipientID+"/visits", ownerID, map[string]any{
			"visitor_name": "Emma",
			"date":         date,
			"start_time":   " 10:00",
			"end_time":     "11:00",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 with padded start_time, got %d body=%s", st, string(body))
		}
	}

	// due_at con espacios pasa validación y también el parseo
	{
		due := " " + time.Now().UTC().AddDate(0, 0, 2).Format(time.RFC3339) + " "
		st, body := doReq(t, ts.URL, "POST", "/recipients/"+recipientID+"/tasks", ownerID, map[string]any{
			"title":  "Pick up prescription",
			"due_at": due,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create task with padded due_at, got %d body=%s", st, string(body))
		}
	}
}

func TestHTTP_DocumentsUploadAndDownload(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	ownerID := "owner-1"
	recipientID := createRecipient(t, ts.URL, ownerID, map[string]any{"name": "Margaret Johnson"})

	content := []byte("%PDF-1.4\n% test document\n")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("category", "medical")
	_ = mw.WriteField("description", "Annual check-up")
	fw, err := mw.CreateFormFile("file", "Medical_Report.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write(content)
	_ = mw.Close()

	req, _ := http.NewRequest("POST", ts.URL+"/recipients/"+recipientID+"/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Debug-User-ID", ownerID)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 upload, got %d body=%s", res.StatusCode, string(body))
	}

	var doc struct {
		ID          string `json:"id"`
		Kind        string `json:"kind"`
		ContentType string `json:"content_type"`
	}
	_ = json.Unmarshal(body, &doc)
	if doc.ID == "" || doc.Kind != "pdf" || doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected upload response body=%s", string(body))
	}

	{
		st, body := doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/documents?category=medical&q=annual", ownerID, nil)
		if st != http.StatusOK || !strings.Contains(string(body), doc.ID) {
			t.Fatalf("expected document in filtered list, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/documents?category=legal", ownerID, nil)
		if st != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
			t.Fatalf("expected empty legal list, got %d body=%s", st, string(body))
		}
	}

	{
		st, got := doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/documents/"+doc.ID+"/content", ownerID, nil)
		if st != http.StatusOK || !bytes.Equal(got, content) {
			t.Fatalf("expected original content, got %d len=%d", st, len(got))
		}
	}

	{
		st, _ := doReq(t, ts.URL, "DELETE", "/recipients/"+recipientID+"/documents/"+doc.ID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/recipients/"+recipientID+"/documents/"+doc.ID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 after delete, got %d", st)
		}
	}
}

func TestHTTP_PublicEndpoints(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	for _, path := range []string{
		"/health",
		"/community/provinces",
		"/community/facilities?province=gauteng&radius=10",
		"/community/events",
		"/community/support-groups",
		"/help/faqs?q=medication",
		"/help/topics",
	} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d body=%s", path, st, string(body))
		}
	}

	st, _ := doReq(t, ts.URL, "GET", "/community/facilities?radius=7", "", nil)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid radius, got %d", st)
	}
}

func TestApp_LoadDemo(t *testing.T) {
	app := router.Build(router.Options{})
	ts := httptest.NewServer(app.Handler)
	defer ts.Close()

	recID, err := app.LoadDemo(context.Background(), "demo-owner", nil)
	if err != nil {
		t.Fatalf("load demo: %v", err)
	}

	st, body := doReq(t, ts.URL, "GET", "/recipients/"+recID+"/members", "demo-owner", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 members, got %d body=%s", st, string(body))
	}

	// Sarah es miembro activo con medications:read
	st, body = doReq(t, ts.URL, "GET", "/recipients/"+recID+"/medications?status=active", "demo-sarah", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 medications for demo member, got %d body=%s", st, string(body))
	}
}

func createRecipient(t *testing.T, baseURL, ownerID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/recipients", ownerID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create recipient, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create recipient: missing id body=%s", string(body))
	}
	return resp.ID
}

func inviteMember(t *testing.T, baseURL, ownerID, recipientID, memberID string, scopes []string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/recipients/"+recipientID+"/members", ownerID, map[string]any{
		"member_user_id": memberID,
		"display_name":   "Sarah Johnson",
		"relationship":   "Daughter",
		"scopes":         scopes,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 invite member, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("invite member: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
