package ner

import (
	"regexp"
	"strings"

	"go-disasterai/types"
)

const patternConfidence = 0.8

// Pattern tables for disaster briefing text. Location and organization
// patterns are case-sensitive on purpose; proper nouns carry their own
// signal.
var (
	locationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(Chennai|Bangalore|Bengaluru|Mumbai|Delhi|Kolkata|Hyderabad|Pune|Ahmedabad|Jaipur|Lucknow|Kochi|Bhubaneswar|Vishakhapatnam|Guwahati|Thiruvananthapuram|Coimbatore|Madurai|Nagpur|Indore|Patna|Ranchi|Chandigarh|Surat|Vadodara)\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s+(?:Terminal|Hub|Node|Station|Port|Airport|Center|Centre|Zone|District|Sector|Area|Region|Base|Facility|Complex|Campus)\b`),
		regexp.MustCompile(`(?:located\s+(?:in|at|near)|based\s+in|headquarters\s+(?:in|at)|offices?\s+(?:in|at))\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`),
	}

	orgPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z][A-Za-z]*(?:Corp|Inc|Ltd|LLC|Pvt|Limited|Corporation|Company|Industries|Group|Foundation|Trust|Agency|Authority|Commission|Department|Ministry|Board))\b`),
		regexp.MustCompile(`\b([A-Z][A-Z]{2,})\b`),
		regexp.MustCompile(`\b([A-Z][a-z]+\s+(?:Corp|Inc|Ltd|LLC|Industries|Group|Agency)\.?)\b`),
	}

	damagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(structural\s+(?:damage|failure|collapse))\b`),
		regexp.MustCompile(`(?i)\b((?:critical|severe|major|minor)\s+(?:damage|failure|breach|leak|disruption))\b`),
		regexp.MustCompile(`(?i)\b(flood(?:ing)?|earthquake|tsunami|cyclone|hurricane|tornado|wildfire|drought)\b`),
		regexp.MustCompile(`(?i)\b(thermal\s+(?:deviation|anomaly|variance))\b`),
		regexp.MustCompile(`(?i)\b(infrastructure\s+(?:failure|damage|collapse))\b`),
		regexp.MustCompile(`(?i)\b(power\s+(?:outage|failure|disruption))\b`),
	}

	urgencyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(CRITICAL|URGENT|IMMEDIATE|EMERGENCY|HIGH\s+PRIORITY|CODE\s+RED)\b`),
		regexp.MustCompile(`(?i)\b((?:requires?|needs?)\s+immediate\s+(?:attention|action|response))\b`),
		regexp.MustCompile(`(?i)\b(evacuat(?:e|ion)|rescue|emergency\s+response)\b`),
	}

	techPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b([A-Z]+[-_](?:[A-Z]+|\d+))\b`),
		regexp.MustCompile(`(?i)\b((?:satellite|radar|sensor|thermal|infrared|GPS|GIS|IoT)\s+(?:data|imagery|analysis|monitoring|detection))\b`),
		regexp.MustCompile(`(?i)\b(AI|ML|deep\s+learning|neural\s+network|machine\s+learning)\b`),
	}
)

// RegexExtract runs every pattern table over the text.
func RegexExtract(text string) []ExtractedEntity {
	var out []ExtractedEntity
	// Specific tables run before the acronym-happy organization patterns so
	// shouted keywords like CRITICAL keep their urgency label.
	out = append(out, extractByPatterns(text, locationPatterns, types.LabelLocation)...)
	out = append(out, extractByPatterns(text, damagePatterns, types.LabelDamage)...)
	out = append(out, extractByPatterns(text, urgencyPatterns, types.LabelUrgency)...)
	out = append(out, extractByPatterns(text, techPatterns, types.LabelTech)...)
	out = append(out, extractByPatterns(text, orgPatterns, types.LabelOrganization)...)
	return mergeEntities(out)
}

// extractByPatterns collects unique spans for one label.
func extractByPatterns(text string, patterns []*regexp.Regexp, label types.EntityLabel) []ExtractedEntity {
	var entities []ExtractedEntity
	seen := make(map[string]struct{})

	for _, pattern := range patterns {
		for _, loc := range pattern.FindAllStringSubmatchIndex(text, -1) {
			// Prefer the first capture group; fall back to the whole match.
			start, end := loc[0], loc[1]
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			span := strings.TrimSpace(text[start:end])
			key := strings.ToLower(span)
			if len(span) < 2 {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entities = append(entities, ExtractedEntity{
				Text:       span,
				Label:      label,
				StartChar:  loc[0],
				EndChar:    loc[1],
				Confidence: patternConfidence,
			})
		}
	}
	return entities
}
