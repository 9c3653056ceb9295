package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/signatories/pkg/model"
)

var certificateCounter int64

var signatoryKeyRegex = regexp.MustCompile(`data-signatory-key="([^"]+)"`)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	certificate  string
	response     *http.Response
	responseBody []byte
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{tc: tc}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a signatories server is running$`, s.aSignatoriesServerIsRunning)
	sc.Step(`^a certificate with signatories:$`, s.aCertificateWithSignatories)

	// API steps
	sc.Step(`^I list the signatories of the certificate$`, s.iListTheSignatories)
	sc.Step(`^I add the signatory "([^"]*)" titled "([^"]*)" through the API$`, s.iAddSignatoryThroughAPI)
	sc.Step(`^I rename signatory (\d+) to "([^"]*)" through the API$`, s.iRenameSignatoryThroughAPI)
	sc.Step(`^I delete the signatory with id (\d+) through the API$`, s.iDeleteSignatoryWithID)

	// Editor steps
	sc.Step(`^I open the editor of the certificate$`, s.iOpenTheEditor)
	sc.Step(`^I delete signatory (\d+) in the editor and (confirm|cancel)$`, s.iDeleteSignatoryInEditor)
	sc.Step(`^I ask to delete signatory (\d+) in the editor$`, s.iAskToDeleteSignatory)

	// Assertions
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should list (\d+) signatories$`, s.theResponseShouldListSignatories)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the editor should show (\d+) signatories$`, s.theEditorShouldShow)
	sc.Step(`^the certificate should have (\d+) signatories in the database$`, s.theCertificateShouldHaveInDB)
	sc.Step(`^signatory (\d+) in the database should be named "([^"]*)"$`, s.signatoryInDBShouldBeNamed)
}

// Background steps

func (s *StepsContext) aSignatoriesServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) aCertificateWithSignatories(table *godog.Table) error {
	// Every scenario edits its own certificate so cached editor pages never leak
	s.certificate = fmt.Sprintf("course-v1:edX+Demo+%d", atomic.AddInt64(&certificateCounter, 1))

	for _, row := range table.Rows[1:] {
		sig := model.Signatory{
			CertificateID: s.certificate,
			Name:          row.Cells[0].Value,
			Title:         row.Cells[1].Value,
		}
		if err := s.tc.DB.Create(&sig).Error; err != nil {
			return err
		}
	}
	return nil
}

// Request helpers

func (s *StepsContext) apiPath() string {
	return s.tc.ServerURL + "/certificates/" + url.PathEscape(s.certificate) + "/signatories"
}

func (s *StepsContext) editorPath() string {
	return s.tc.ServerURL + "/editor/certificates/" + url.PathEscape(s.certificate) + "/signatories"
}

func (s *StepsContext) do(req *http.Request) error {
	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}

func (s *StepsContext) sendJSON(method, target string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, target, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

func (s *StepsContext) postForm(target string, form url.Values) error {
	req, err := http.NewRequest("POST", target, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *StepsContext) signatoryIDs() ([]int64, error) {
	var rows []model.Signatory
	if err := s.tc.DB.Where("certificate_id = ?", s.certificate).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

// API steps

func (s *StepsContext) iListTheSignatories() error {
	req, err := http.NewRequest("GET", s.apiPath(), nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iAddSignatoryThroughAPI(name, title string) error {
	return s.sendJSON("POST", s.apiPath(), map[string]string{"name": name, "title": title})
}

func (s *StepsContext) iRenameSignatoryThroughAPI(position int, name string) error {
	ids, err := s.signatoryIDs()
	if err != nil {
		return err
	}
	if position < 1 || position > len(ids) {
		return fmt.Errorf("no signatory %d", position)
	}
	target := s.apiPath() + "/" + strconv.FormatInt(ids[position-1], 10)
	return s.sendJSON("PUT", target, map[string]string{"name": name, "title": "Renamed"})
}

func (s *StepsContext) iDeleteSignatoryWithID(id int) error {
	req, err := http.NewRequest("DELETE", s.apiPath()+"/"+strconv.Itoa(id), nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

// Editor steps

func (s *StepsContext) iOpenTheEditor() error {
	req, err := http.NewRequest("GET", s.editorPath(), nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

// editorKey returns the key of the signatory at position in the editor
func (s *StepsContext) editorKey(position int) (string, error) {
	if err := s.iOpenTheEditor(); err != nil {
		return "", err
	}
	matches := signatoryKeyRegex.FindAllStringSubmatch(string(s.responseBody), -1)
	if position < 1 || position > len(matches) {
		return "", fmt.Errorf("editor shows %d signatories, no signatory %d", len(matches), position)
	}
	return matches[position-1][1], nil
}

func (s *StepsContext) iAskToDeleteSignatory(position int) error {
	key, err := s.editorKey(position)
	if err != nil {
		return err
	}
	req, err := http.NewRequest("GET", s.editorPath()+"/"+key+"/delete", nil)
	if err != nil {
		return err
	}
	return s.do(req)
}

func (s *StepsContext) iDeleteSignatoryInEditor(position int, answer string) error {
	key, err := s.editorKey(position)
	if err != nil {
		return err
	}
	confirm := "no"
	if answer == "confirm" {
		confirm = "yes"
	}
	return s.postForm(s.editorPath()+"/"+key+"/delete", url.Values{"confirm": {confirm}})
}

// Assertions

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldListSignatories(count int) error {
	var list []map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &list); err != nil {
		return fmt.Errorf("response is not a JSON array: %w", err)
	}
	if len(list) != count {
		return fmt.Errorf("expected %d signatories, got %d", count, len(list))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected response to contain %q, got: %s", text, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theEditorShouldShow(count int) error {
	if err := s.iOpenTheEditor(); err != nil {
		return err
	}
	if got := len(signatoryKeyRegex.FindAllString(string(s.responseBody), -1)); got != count {
		return fmt.Errorf("expected the editor to show %d signatories, got %d", count, got)
	}
	return nil
}

func (s *StepsContext) theCertificateShouldHaveInDB(count int) error {
	ids, err := s.signatoryIDs()
	if err != nil {
		return err
	}
	if len(ids) != count {
		return fmt.Errorf("expected %d signatories in the database, got %d", count, len(ids))
	}
	return nil
}

func (s *StepsContext) signatoryInDBShouldBeNamed(position int, name string) error {
	var rows []model.Signatory
	if err := s.tc.DB.Where("certificate_id = ?", s.certificate).Order("id").Find(&rows).Error; err != nil {
		return err
	}
	if position < 1 || position > len(rows) {
		return fmt.Errorf("no signatory %d in the database", position)
	}
	if rows[position-1].Name != name {
		return fmt.Errorf("expected signatory %d to be named %q, got %q", position, name, rows[position-1].Name)
	}
	return nil
}
