package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmorenov/servicedesk-backend/internal/complaints"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

type stubComplaintService struct {
	detail      *complaints.ComplaintDetail
	list        *complaints.ComplaintList
	err         error
	gotInput    *complaints.CreateComplaintInput
	gotFilters  *complaints.ComplaintFilters
	gotParams   *pagination.Params
	gotComplete *complaints.CompleteRepairInput
}

func (s *stubComplaintService) Create(_ context.Context, input complaints.CreateComplaintInput) (*complaints.ComplaintDetail, error) {
	s.gotInput = &input
	return s.detail, s.err
}

func (s *stubComplaintService) Get(context.Context, uuid.UUID) (*complaints.ComplaintDetail, error) {
	return s.detail, s.err
}

func (s *stubComplaintService) List(_ context.Context, params pagination.Params, filters complaints.ComplaintFilters) (*complaints.ComplaintList, error) {
	s.gotParams = &params
	s.gotFilters = &filters
	return s.list, s.err
}

func (s *stubComplaintService) AssignEngineer(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func (s *stubComplaintService) BeginInvestigation(context.Context, uuid.UUID) error {
	return s.err
}

func (s *stubComplaintService) CompleteRepair(_ context.Context, _ uuid.UUID, input complaints.CompleteRepairInput) error {
	s.gotComplete = &input
	return s.err
}

func (s *stubComplaintService) Delete(context.Context, uuid.UUID) error {
	return s.err
}

func urlParamRequest(method, target, param, value string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rc := chi.NewRouteContext()
	rc.URLParams.Add(param, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCreateComplaintSuccess(t *testing.T) {
	detail := &complaints.ComplaintDetail{
		ID:     uuid.New(),
		Status: enums.ComplaintStatusOpen,
		Kind:   enums.ComplaintKindWarranty,
	}
	stub := &stubComplaintService{detail: detail}
	handler := CreateComplaint(stub, nil)

	payload := map[string]any{
		"customer":    map[string]string{"name": "Acme Hotels", "branch": "Downtown", "phone": "+20100000001"},
		"product":     map[string]string{"brand": "Coldline", "type": "fridge", "model": "CL-300", "serial": "SN-1001"},
		"description": "unit not cooling",
		"kind":        "warranty",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotInput == nil {
		t.Fatalf("service not called")
	}
	if stub.gotInput.Customer.Phone != "+20100000001" {
		t.Fatalf("unexpected phone %q", stub.gotInput.Customer.Phone)
	}

	var envelope struct {
		Data complaints.ComplaintDetail `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != detail.ID {
		t.Fatalf("expected id %s got %s", detail.ID, envelope.Data.ID)
	}
}

func TestCreateComplaintRejectsMissingFields(t *testing.T) {
	handler := CreateComplaint(&stubComplaintService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", bytes.NewReader([]byte(`{"description":"x"}`)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGetComplaintInvalidID(t *testing.T) {
	handler := GetComplaint(&stubComplaintService{}, nil)

	req := urlParamRequest(http.MethodGet, "/api/v1/complaints/nope", "complaintId", "nope", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGetComplaintNotFound(t *testing.T) {
	stub := &stubComplaintService{err: pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")}
	handler := GetComplaint(stub, nil)

	req := urlParamRequest(http.MethodGet, "/api/v1/complaints/"+uuid.NewString(), "complaintId", uuid.NewString(), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestListComplaintsParsesFilters(t *testing.T) {
	stub := &stubComplaintService{list: &complaints.ComplaintList{}}
	handler := ListComplaints(stub, nil)

	engineerID := uuid.New()
	target := "/api/v1/complaints?limit=10&status=open&kind=warranty&engineer_id=" + engineerID.String() + "&q=fridge&date_from=2026-08-01&date_to=2026-08-31"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotParams == nil || stub.gotParams.Limit != 10 {
		t.Fatalf("expected limit 10, got %+v", stub.gotParams)
	}
	filters := stub.gotFilters
	if filters == nil {
		t.Fatalf("filters not captured")
	}
	if filters.Status == nil || *filters.Status != enums.ComplaintStatusOpen {
		t.Fatalf("expected open status filter, got %+v", filters.Status)
	}
	if filters.Kind == nil || *filters.Kind != enums.ComplaintKindWarranty {
		t.Fatalf("expected warranty kind filter, got %+v", filters.Kind)
	}
	if filters.EngineerID == nil || *filters.EngineerID != engineerID {
		t.Fatalf("expected engineer filter %s", engineerID)
	}
	if filters.Query != "fridge" {
		t.Fatalf("expected query fridge got %q", filters.Query)
	}
	if filters.DateFrom == nil || filters.DateTo == nil {
		t.Fatalf("expected date range filters")
	}
	if !filters.DateTo.After(*filters.DateFrom) {
		t.Fatalf("date_to should extend past date_from")
	}
}

func TestListComplaintsRejectsBadStatus(t *testing.T) {
	handler := ListComplaints(&stubComplaintService{list: &complaints.ComplaintList{}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints?status=bogus", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCompleteComplaintRepairPassesParts(t *testing.T) {
	detail := &complaints.ComplaintDetail{ID: uuid.New(), Status: enums.ComplaintStatusClosed}
	stub := &stubComplaintService{detail: detail}
	handler := CompleteComplaintRepair(stub, nil)

	partID := uuid.New()
	payload := map[string]any{
		"repair_type": "with_spare_parts",
		"spare_parts": []map[string]any{{"spare_part_id": partID, "quantity": 2}},
	}
	body, _ := json.Marshal(payload)
	req := urlParamRequest(http.MethodPost, "/api/v1/complaints/"+detail.ID.String()+"/repair", "complaintId", detail.ID.String(), bytes.NewBuffer(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.gotComplete == nil {
		t.Fatalf("service not called")
	}
	if len(stub.gotComplete.SpareParts) != 1 || stub.gotComplete.SpareParts[0].SparePartID != partID {
		t.Fatalf("unexpected parts payload %+v", stub.gotComplete.SpareParts)
	}
}

func TestCompleteComplaintRepairInsufficientStock(t *testing.T) {
	stub := &stubComplaintService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock")}
	handler := CompleteComplaintRepair(stub, nil)

	id := uuid.NewString()
	body := bytes.NewBufferString(`{"repair_type":"with_spare_parts","spare_parts":[{"spare_part_id":"` + uuid.NewString() + `","quantity":1}]}`)
	req := urlParamRequest(http.MethodPost, "/api/v1/complaints/"+id+"/repair", "complaintId", id, body)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}
