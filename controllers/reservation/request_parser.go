package reservation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"room-booking/database"
	"room-booking/logger"
	"room-booking/models/request_parser"
	parserService "room-booking/services/request_parser"
	"room-booking/types"
	reservationTypes "room-booking/types/reservation"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/genai"
)

// ParseTextRequest turns a free-text reservation request ("book the large
// conference room tomorrow 14:00-15:30 for the quarterly review") into the
// structured fields a ReservationCreateRequest needs, using the Gemini API.
func (rc *ReservationController) ParseTextRequest(c *fiber.Ctx) error {
	startTime := time.Now()

	service := parserService.NewRequestParserService(database.DB)
	requestID := service.GenerateRequestID()

	var req reservationTypes.ParseTextRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error(fmt.Sprintf("Failed to parse request body for request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}
	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: err.Error(),
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	// Cap request size so a pasted document doesn't hit the model
	if len(req.Text) > 4000 {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Text too long. Maximum length is 4000 characters",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	if _, err := service.CreateInitialRequest(c, requestID, req.Text); err != nil {
		logger.Error(fmt.Sprintf("Failed to create initial request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to initialize request",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	result, err := rc.parseTextWithGemini(req.Text)
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		service.SaveFailureResultAsync(requestID, fmt.Sprintf("Gemini parsing failed: %s", err.Error()), processingTime)

		logger.Error(fmt.Sprintf("Failed to parse reservation request with Gemini for request %s", requestID), err)

		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to parse reservation request",
			Status:  fiber.StatusInternalServerError,
			Data: map[string]interface{}{
				"error":      err.Error(),
				"request_id": requestID,
			},
		})
	}

	processingTime := time.Since(startTime).Milliseconds()
	result.ProcessingTimeMs = processingTime
	result.RequestID = requestID

	service.SaveSuccessResultAsync(requestID, result)

	logger.Success(fmt.Sprintf("Reservation request parsed successfully in %dms, Request ID: %s",
		processingTime, requestID))

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Reservation request parsed successfully",
		Data:    result,
	})
}

// parseTextWithGemini extracts structured reservation fields from free text
func (rc *ReservationController) parseTextWithGemini(text string) (*request_parser.ParseResponse, error) {
	ctx := context.Background()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	prompt := fmt.Sprintf(`Analyze this room reservation request and extract the following information. Return ONLY valid JSON.

			Today's date is %s. Resolve relative dates ("tomorrow", "next Monday") against it.
			If a field is missing or unclear, use an empty string.

			Required JSON format:
			{
			"room_name": string,   // Name of the requested room, if any
			"building": string,    // Building name, if mentioned
			"date": string,        // Requested date as YYYY-MM-DD
			"start_time": string,  // Start time as HH:MM (24h)
			"end_time": string,    // End time as HH:MM (24h)
			"purpose": string      // Short purpose of the meeting
			}

			Request text:
			%s`, time.Now().Format("2006-01-02"), text)

	content := &genai.Content{
		Parts: []*genai.Part{
			&genai.Part{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var parsedData request_parser.ParseResponse
	if err := json.Unmarshal([]byte(jsonText), &parsedData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	return &parsedData, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			jsonLines := lines[1 : len(lines)-1]
			return strings.Join(jsonLines, "\n")
		}
	}

	return text
}
