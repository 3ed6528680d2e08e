package api

import (
	"bytes"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/http/exts"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/services"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/testutil"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	db := testutil.SetupTestDB(t)
	surveys := services.NewSurveyService(db, services.NewCodeGenerator())
	surveys.SetShareBaseURL("http://localhost:3000/fill_survey.html?uuid=")

	app := fiber.New(fiber.Config{
		ErrorHandler: exts.ErrorHandler,
		JSONEncoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Marshal,
		JSONDecoder:  jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal,
	})
	NewController(surveys, services.NewResponseService(db), services.NewResultService(db)).
		MapAPIs(app, "/api")
	return app
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := jsoniter.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := jsoniter.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s returned undecodable body: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func sampleCreateBody() map[string]any {
	return map[string]any{
		"title":       "午餐调查",
		"description": "关于午餐的简单问卷",
		"questions": []map[string]any{
			{"question_text": "姓名", "question_type": "text_input", "is_required": true},
			{
				"question_text": "颜色",
				"question_type": "multiple_choice",
				"options": []map[string]any{
					{"option_text": "红"},
					{"option_text": "绿"},
					{"option_text": "蓝"},
				},
			},
		},
	}
}

func TestWelcome(t *testing.T) {
	app := setupApp(t)

	status, body := request(t, app, fiber.MethodGet, "/api", nil)
	if status != fiber.StatusOK || body["message"] == nil {
		t.Fatalf("GET /api = %d %v", status, body)
	}
}

func TestSurveyLifecycle(t *testing.T) {
	app := setupApp(t)

	status, created := request(t, app, fiber.MethodPost, "/api/surveys/create", sampleCreateBody())
	if status != fiber.StatusCreated {
		t.Fatalf("create = %d %v", status, created)
	}
	token, _ := created["share_token"].(string)
	code, _ := created["result_access_code"].(string)
	surveyId, _ := created["survey_id"].(float64)
	if token == "" || code == "" || surveyId == 0 {
		t.Fatalf("create returned incomplete body %v", created)
	}
	if created["share_link"] != "http://localhost:3000/fill_survey.html?uuid="+token {
		t.Errorf("unexpected share link %v", created["share_link"])
	}

	status, form := request(t, app, fiber.MethodGet, "/api/surveys/fill/"+token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("fill = %d %v", status, form)
	}
	if _, leaked := form["result_access_code"]; leaked {
		t.Error("form must not expose the result access code")
	}
	questions := form["questions"].([]any)
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	name := questions[0].(map[string]any)
	color := questions[1].(map[string]any)
	options := color["options"].([]any)
	red := options[0].(map[string]any)["id"]
	blue := options[2].(map[string]any)["id"]

	submitPath := "/api/surveys/" + strconv.Itoa(int(surveyId)) + "/submit"
	status, submitted := request(t, app, fiber.MethodPost, submitPath, map[string]any{
		"answers": []map[string]any{
			{"question_id": name["id"], "answer_text": "张三"},
			{"question_id": color["id"], "selected_option_id": red},
			{"question_id": color["id"], "selected_option_id": blue},
		},
	})
	if status != fiber.StatusCreated || submitted["response_id"] == nil {
		t.Fatalf("submit = %d %v", status, submitted)
	}

	status, results := request(t, app, fiber.MethodPost, "/api/surveys/results-detailed", map[string]any{
		"result_access_code": code,
	})
	if status != fiber.StatusOK {
		t.Fatalf("results = %d %v", status, results)
	}
	if results["survey_title"] != "午餐调查" {
		t.Errorf("unexpected title %v", results["survey_title"])
	}
	responses := results["responses"].([]any)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	answers := responses[0].(map[string]any)["answers"].([]any)
	if got := answers[0].(map[string]any)["answer_text"]; got != "张三" {
		t.Errorf("name answer = %v", got)
	}
	if got := answers[1].(map[string]any)["answer_text"]; got != "红, 蓝" {
		t.Errorf("colour answer = %v", got)
	}
}

func TestCreateSurveyRejectsInvalidInput(t *testing.T) {
	app := setupApp(t)

	body := sampleCreateBody()
	body["questions"].([]map[string]any)[1]["options"] = []map[string]any{}

	status, out := request(t, app, fiber.MethodPost, "/api/surveys/create", body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("create = %d %v", status, out)
	}
	if message, _ := out["error"].(string); !strings.Contains(message, "颜色") {
		t.Errorf("error %q does not name the question", message)
	}
}

func TestNotFoundResponses(t *testing.T) {
	app := setupApp(t)

	status, out := request(t, app, fiber.MethodGet, "/api/surveys/fill/unknown-token", nil)
	if status != fiber.StatusNotFound || out["error"] == nil {
		t.Errorf("fill unknown = %d %v", status, out)
	}

	status, out = request(t, app, fiber.MethodPost, "/api/surveys/42/submit", map[string]any{
		"answers": []map[string]any{},
	})
	if status != fiber.StatusNotFound {
		t.Errorf("submit unknown = %d %v", status, out)
	}

	status, out = request(t, app, fiber.MethodPost, "/api/surveys/results-detailed", map[string]any{
		"result_access_code": "123456789",
	})
	if status != fiber.StatusNotFound {
		t.Errorf("results unknown = %d %v", status, out)
	}
}

func TestBadRequests(t *testing.T) {
	app := setupApp(t)

	status, _ := request(t, app, fiber.MethodPost, "/api/surveys/abc/submit", map[string]any{
		"answers": []map[string]any{},
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("submit with bad id = %d", status)
	}

	status, _ = request(t, app, fiber.MethodPost, "/api/surveys/1/submit", map[string]any{})
	if status != fiber.StatusBadRequest {
		t.Errorf("submit without answers = %d", status)
	}

	status, _ = request(t, app, fiber.MethodPost, "/api/surveys/results-detailed", map[string]any{})
	if status != fiber.StatusBadRequest {
		t.Errorf("results without code = %d", status)
	}
}
