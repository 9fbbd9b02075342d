package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	userID       uint
	documentID   uint
	accountIDs   map[string]uint
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:         tc,
		accountIDs: make(map[string]uint),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.tc.Reset()
	})

	// Background steps
	sc.Step(`^a docvault server is running$`, s.aDocvaultServerIsRunning)
	sc.Step(`^the processor is failing$`, s.theProcessorIsFailing)

	// Account steps
	sc.Step(`^I register "([^"]*)" with password "([^"]*)" and role "([^"]*)"$`, s.iRegister)
	sc.Step(`^a user "([^"]*)" with password "([^"]*)" and role "([^"]*)" exists$`, s.aUserExists)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, s.iAmLoggedIn)
	sc.Step(`^I delete the account of "([^"]*)"$`, s.iDeleteTheAccountOf)

	// Document steps
	sc.Step(`^I upload a document titled "([^"]*)" with content "([^"]*)"$`, s.iUploadADocument)
	sc.Step(`^I update the document with title "([^"]*)" and content "([^"]*)"$`, s.iUpdateTheDocument)
	sc.Step(`^I trigger ingestion of the document$`, s.iTriggerIngestion)

	// Generic request steps
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, s.iSendARequest)
	sc.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)" without a token$`, s.iSendARequestWithoutAToken)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should receive an access token$`, s.iShouldReceiveAnAccessToken)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the response should be a list of (\d+) items?$`, s.theResponseShouldBeAListOf)
}

func (s *StepsContext) aDocvaultServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) theProcessorIsFailing() error {
	s.tc.processorFails.Store(true)
	return nil
}

// do sends a request with the current token (if any) and records the response
func (s *StepsContext) do(method, path string, body any, withToken bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+s.expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken && s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// expand replaces {document} with the id of the last uploaded document
func (s *StepsContext) expand(path string) string {
	return strings.ReplaceAll(path, "{document}", strconv.FormatUint(uint64(s.documentID), 10))
}

func (s *StepsContext) decode() (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", s.responseBody)
	}
	return body, nil
}

// Account steps

func (s *StepsContext) iRegister(username, password, role string) error {
	err := s.do("POST", "/auth/register", map[string]string{
		"username": username,
		"password": password,
		"role":     role,
	}, false)
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		body, err := s.decode()
		if err != nil {
			return err
		}
		s.accountIDs[username] = uint(body["id"].(float64))
	}
	return nil
}

func (s *StepsContext) aUserExists(username, password, role string) error {
	if err := s.iRegister(username, password, role); err != nil {
		return err
	}
	return s.expectStatus(http.StatusCreated)
}

func (s *StepsContext) iLogIn(username, password string) error {
	err := s.do("POST", "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, false)
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		body, err := s.decode()
		if err != nil {
			return err
		}
		s.authToken, _ = body["access_token"].(string)
		s.userID = s.accountIDs[username]
	}
	return nil
}

func (s *StepsContext) iAmLoggedIn(username, password string) error {
	if err := s.iLogIn(username, password); err != nil {
		return err
	}
	return s.expectStatus(http.StatusOK)
}

func (s *StepsContext) iDeleteTheAccountOf(username string) error {
	id, ok := s.accountIDs[username]
	if !ok {
		return fmt.Errorf("no account registered for %s", username)
	}
	return s.do("DELETE", fmt.Sprintf("/user/%d", id), nil, true)
}

// Document steps

func (s *StepsContext) iUploadADocument(title, content string) error {
	err := s.do("POST", "/document/upload", map[string]any{
		"userId":  s.userID,
		"title":   title,
		"content": content,
	}, true)
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		body, err := s.decode()
		if err != nil {
			return err
		}
		s.documentID = uint(body["id"].(float64))
	}
	return nil
}

func (s *StepsContext) iUpdateTheDocument(title, content string) error {
	return s.do("PUT", "/document/{document}", map[string]string{
		"title":   title,
		"content": content,
	}, true)
}

func (s *StepsContext) iTriggerIngestion() error {
	return s.do("POST", "/ingestion/trigger", map[string]uint{"documentId": s.documentID}, true)
}

// Generic request steps

func (s *StepsContext) iSendARequest(method, path string) error {
	return s.do(method, path, nil, true)
}

func (s *StepsContext) iSendARequestWithoutAToken(method, path string) error {
	return s.do(method, path, nil, false)
}

// Response steps

func (s *StepsContext) expectStatus(expected int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, s.response.StatusCode, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseStatusShouldBe(expected int) error {
	return s.expectStatus(expected)
}

func (s *StepsContext) iShouldReceiveAnAccessToken() error {
	if s.authToken == "" {
		return fmt.Errorf("no access token in response: %s", s.responseBody)
	}
	if strings.Count(s.authToken, ".") != 2 {
		return fmt.Errorf("access token is not a JWT: %s", s.authToken)
	}
	return nil
}

// theResponseFieldShouldBe compares a dotted path into the JSON response
func (s *StepsContext) theResponseFieldShouldBe(path, expected string) error {
	body, err := s.decode()
	if err != nil {
		return err
	}

	var current any = body
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return fmt.Errorf("field %s: %v is not an object", path, current)
		}
		current, ok = obj[key]
		if !ok {
			return fmt.Errorf("field %s not found in %s", path, s.responseBody)
		}
	}

	if actual := fmt.Sprint(current); actual != expected {
		return fmt.Errorf("field %s: expected %q, got %q", path, expected, actual)
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(text string) error {
	if !bytes.Contains(s.responseBody, []byte(text)) {
		return fmt.Errorf("expected response to contain %q, got %s", text, s.responseBody)
	}
	return nil
}

func (s *StepsContext) theResponseShouldBeAListOf(n int) error {
	var items []any
	if err := json.Unmarshal(s.responseBody, &items); err != nil {
		return fmt.Errorf("response is not a JSON list: %s", s.responseBody)
	}
	if len(items) != n {
		return fmt.Errorf("expected %d items, got %d", n, len(items))
	}
	return nil
}
