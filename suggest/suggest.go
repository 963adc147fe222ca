// Package suggest is the optional generative-AI collaborator: it asks Gemini
// to rewrite content based on the failing audit items. It is best-effort by
// contract; every failure mode collapses to ErrUnavailable and the caller
// keeps its already-computed analysis.
package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/content-audit/backend/analyzer"
)

const defaultModel = "gemini-2.0-flash"

// ErrUnavailable is the only error Optimize returns.
var ErrUnavailable = errors.New("suggestion unavailable")

// Suggestion is the model's structured answer.
type Suggestion struct {
	Suggestions     []string `json:"suggestions"`
	EnhancedContent string   `json:"enhancedContent"`
}

// Client wraps one Gemini model.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient builds a client from GEMINI_API_KEY and optional GEMINI_MODEL.
func NewClient(ctx context.Context) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultModel
	}

	gc, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{client: gc, model: model}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Optimize asks the model for a selective rewrite fixing the failing audit
// items. The original markup must survive; edits come back wrapped in a red
// <strong> so the editor can show them.
func (c *Client) Optimize(ctx context.Context, input analyzer.ContentInput, result analyzer.AnalysisResult) (*Suggestion, error) {
	if c == nil || c.client == nil {
		return nil, ErrUnavailable
	}

	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(input, result)))
	if err != nil {
		return nil, ErrUnavailable
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrUnavailable
	}

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(text), &suggestion); err != nil {
		return nil, ErrUnavailable
	}

	return &suggestion, nil
}

func buildPrompt(input analyzer.ContentInput, result analyzer.AnalysisResult) string {
	var issues strings.Builder
	for _, item := range result.AuditItems {
		if !item.Passed {
			fmt.Fprintf(&issues, "- %s: %s\n", item.Label, item.Message)
		}
	}

	return fmt.Sprintf(`BẠN LÀ SEO LEAD + EDITOR NGÀNH %s.
NHIỆM VỤ: Sửa và bổ sung bài viết dựa trên Search Intent, Loại bài và danh sách lỗi.

INPUT CỦA BẠN LÀ HTML:
- Bài viết gốc (HTML): %s
- Intent: %s
- Loại bài: %s
- Danh sách lỗi:
%s

QUY TẮC BẮT BUỘC:
1. BẢO TỒN DỮ LIỆU CŨ: Giữ nguyên các thẻ HTML hiện có như <a href="...">, <img src="...">, <h2>, <h3>. Không xóa link hay đổi thuộc tính href.
2. SỬA CHỌN LỌC: Chỉ bổ sung hoặc sửa các đoạn văn bị lỗi SEO.
3. QUY ƯỚC HIỂN THỊ: Phần mới hoặc phần sửa phải được bọc trong thẻ <strong style="color: #ef4444;">...</strong>, giữ lại link bên trong nếu có.
4. KHÔNG ICON: Không thêm bất kỳ icon nào.
5. GIỮ NGUYÊN ĐỊNH DẠNG: Output là một chuỗi HTML hợp lệ.

OUTPUT TRẢ VỀ ĐỊNH DẠNG JSON:
{"suggestions": ["Gợi ý 1: ...", "Gợi ý 2: ..."], "enhancedContent": "Nội dung HTML đầy đủ sau khi tối ưu"}`,
		result.Taxonomy.Industry,
		input.Content,
		result.Taxonomy.Intent,
		result.Taxonomy.ContentType,
		issues.String())
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String())
}
