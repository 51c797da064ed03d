// Package ner extracts named entities from briefing text. The Cloud Natural
// Language API is used when credentials are configured; a regex extractor
// tuned to disaster reports covers the rest.
package ner

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	language "cloud.google.com/go/language/apiv2"
	"cloud.google.com/go/language/apiv2/languagepb"
	"google.golang.org/api/option"

	"go-disasterai/types"
)

// languageClient is a singleton language client instance.
var (
	languageClient *language.Client
	clientOnce     sync.Once
	clientErr      error
)

// ExtractedEntity is one recognized span.
type ExtractedEntity struct {
	Text       string            `json:"text"`
	Label      types.EntityLabel `json:"label"`
	StartChar  int               `json:"start_char"`
	EndChar    int               `json:"end_char"`
	Confidence float64           `json:"confidence"`
}

// InitLanguageClient initializes the Cloud Natural Language client from
// NATURAL_LANGUAGE_CREDENTIALS (base64-encoded service account JSON).
func InitLanguageClient(ctx context.Context) (*language.Client, error) {
	clientOnce.Do(func() {
		encoded := os.Getenv("NATURAL_LANGUAGE_CREDENTIALS")
		if encoded == "" {
			clientErr = fmt.Errorf("NATURAL_LANGUAGE_CREDENTIALS not set")
			return
		}
		creds, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			clientErr = fmt.Errorf("decode natural language credentials: %w", err)
			return
		}
		languageClient, clientErr = language.NewClient(ctx, option.WithCredentialsJSON(creds))
	})
	return languageClient, clientErr
}

// CloseLanguageClient closes the shared client if one was opened.
func CloseLanguageClient() {
	if languageClient != nil {
		languageClient.Close()
	}
}

// Extract recognizes entities in text, preferring the Cloud API and falling
// back to patterns when it is unavailable or fails.
func Extract(ctx context.Context, text string) []ExtractedEntity {
	client, err := InitLanguageClient(ctx)
	if err == nil {
		entities, apiErr := cloudExtract(ctx, client, text)
		if apiErr == nil {
			return mergeEntities(entities, RegexExtract(text))
		}
		log.Printf("ner: cloud extraction failed, using patterns: %v", apiErr)
	}
	return RegexExtract(text)
}

// cloudExtract runs the Natural Language entity analyzer and maps its types
// onto our labels.
func cloudExtract(ctx context.Context, client *language.Client, text string) ([]ExtractedEntity, error) {
	resp, err := client.AnalyzeEntities(ctx, &languagepb.AnalyzeEntitiesRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{Content: text},
			Type:   languagepb.Document_PLAIN_TEXT,
		},
		EncodingType: languagepb.EncodingType_UTF8,
	})
	if err != nil {
		return nil, fmt.Errorf("analyze entities: %w", err)
	}

	labelMap := map[languagepb.Entity_Type]types.EntityLabel{
		languagepb.Entity_LOCATION:     types.LabelLocation,
		languagepb.Entity_ADDRESS:      types.LabelLocation,
		languagepb.Entity_ORGANIZATION: types.LabelOrganization,
		languagepb.Entity_PERSON:       types.LabelPerson,
		languagepb.Entity_DATE:         types.LabelDate,
		languagepb.Entity_EVENT:        types.LabelEvent,
	}

	var entities []ExtractedEntity
	seen := make(map[string]struct{})
	for _, ent := range resp.Entities {
		label, ok := labelMap[ent.Type]
		if !ok {
			continue
		}
		name := strings.TrimSpace(ent.Name)
		key := strings.ToLower(name)
		if len(name) < 2 {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		e := ExtractedEntity{Text: name, Label: label, Confidence: 0.9}
		if len(ent.Mentions) > 0 {
			begin := int(ent.Mentions[0].Text.BeginOffset)
			e.StartChar = begin
			e.EndChar = begin + len(ent.Mentions[0].Text.Content)
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// mergeEntities combines extractor outputs, keeping the higher-confidence
// span for duplicated text.
func mergeEntities(groups ...[]ExtractedEntity) []ExtractedEntity {
	var all []ExtractedEntity
	for _, g := range groups {
		all = append(all, g...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Confidence > all[j].Confidence })

	seen := make(map[string]struct{}, len(all))
	out := make([]ExtractedEntity, 0, len(all))
	for _, e := range all {
		key := strings.ToLower(e.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}
