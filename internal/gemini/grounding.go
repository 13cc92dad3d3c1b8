package gemini

import "google.golang.org/genai"

// groundingURLs collects every citation URL from the first candidate's
// grounding metadata, preserving provider order and skipping chunks that
// carry no web URI.
func groundingURLs(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 {
		return []string{}
	}

	md := resp.Candidates[0].GroundingMetadata
	if md == nil {
		return []string{}
	}

	urls := make([]string, 0, len(md.GroundingChunks))
	for _, chunk := range md.GroundingChunks {
		if chunk != nil && chunk.Web != nil && chunk.Web.URI != "" {
			urls = append(urls, chunk.Web.URI)
		}
	}

	return urls
}
