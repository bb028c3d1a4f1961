package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"order-desk/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

type Agent struct {
	client *openai.Client
}

// NewAgent creates an agent. Extra options are passed to the OpenAI client.
func NewAgent(apiKey string, opts ...option.RequestOption) *Agent {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &Agent{client: &client}
}

// InterpretOrderInput reads an operator instruction against the draft summary
// and returns one validated intent.
func (a *Agent) InterpretOrderInput(ctx context.Context, text, draftSummary string) (*core.OrderIntent, error) {
	prompt := fmt.Sprintf(`You help a sales operator fill in an order form in TableCRM.
Turn the operator's instruction into exactly one action on the order draft.
Rules:
1. Line numbers are 1-based and refer to the draft below.
2. Amounts are plain decimal strings (e.g. "2", "12.5", "1500.00").
3. For add_product put the product name in query and the quantity in amount.
4. For select_client put the client's name or phone in query.
5. If the instruction is ambiguous or refers to a line that does not exist, use clarify and ask one short question.

Current draft:
%s
Instruction: %s`, draftSummary, text)

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "order_intent",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("One action to apply to the order draft"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var intent core.OrderIntent
	if err := json.Unmarshal([]byte(content), &intent); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	intent.Normalize()
	if err := intent.Validate(); err != nil {
		return nil, fmt.Errorf("intent validation failed: %w", err)
	}

	return &intent, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.OrderIntent
	return reflector.Reflect(v)
}
