package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/lessonhub/lessonhub-api/internal/dto"
	"github.com/lessonhub/lessonhub-api/internal/handler"
)

const rewardEnvelopeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["success", "message", "data"],
  "properties": {
    "success": {"type": "boolean"},
    "message": {"type": "string"},
    "data": {
      "type": "object",
      "required": ["pointsDelta", "eurosDelta", "totalPoints"],
      "properties": {
        "pointsDelta": {"type": "integer"},
        "eurosDelta": {"type": "number"},
        "totalPoints": {"type": "integer"},
        "tapCount": {"type": "integer"}
      },
      "additionalProperties": false
    }
  }
}`

type stubGameService struct {
	reward dto.RewardResponse
}

func (s stubGameService) ArkaningRound(context.Context, uint, uint, dto.ArkaningRoundRequest) (dto.RewardResponse, error) {
	return s.reward, nil
}

func (s stubGameService) FlipperMatch(context.Context, uint, uint, dto.FlipperMatchRequest) (dto.RewardResponse, error) {
	return s.reward, nil
}

func (s stubGameService) NewsArticleTap(context.Context, uint, uint, dto.NewsArticleTapRequest) (dto.RewardResponse, error) {
	return s.reward, nil
}

func TestRewardResponseContract(t *testing.T) {
	compiler := jsonschema.NewCompiler()
	require.NoError(t, compiler.AddResource("reward.schema.json", strings.NewReader(rewardEnvelopeSchema)))
	schema, err := compiler.Compile("reward.schema.json")
	require.NoError(t, err)

	taps := 3
	svc := stubGameService{reward: dto.RewardResponse{
		PointsDelta: 50,
		EurosDelta:  5,
		TotalPoints: 150,
		TapCount:    &taps,
	}}
	h := handler.NewSubmissionHandler(nil, svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/assignments", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "student")
		return c.Next()
	})
	h.Register(group)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/assignments/7/news-article/tap", strings.NewReader(`{"word":"haus"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
