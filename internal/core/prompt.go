package core

import "fmt"

// MaxPromptChars bounds the document text embedded in a prompt, keeping
// provider request cost and latency in check.
const MaxPromptChars = 100000

const truncationMarker = "\n...[TRUNCATED]..."

const generationTemplate = `You are an experienced project manager.
You are given the text of a Request for Proposal (RFP). Based on this RFP, draft a concise Project Initiation Document (PID).

RFP TEXT:
"""
%s
"""

Produce the PID with clear sections and headings:
1. Project Background and Context
2. Objectives and Scope
3. Key Deliverables
4. Stakeholders and Roles
5. High-Level Approach and Timeline
6. Risks and Assumptions
7. Success Criteria
`

const refinementTemplate = `You are an expert Project Manager.
Here is the current Project Initiation Document (PID):
"""
%s
"""

The user wants to refine this PID with the following instruction:
"%s"

Please rewrite the PID to incorporate these changes.
- Maintain the existing markdown formatting and structure where possible, unless the instruction implies changing it.
- Be professional and concise.
- Return ONLY the updated PID text. Do not include conversational filler before or after.
`

// Truncate caps text at MaxPromptChars, appending a visible marker when
// anything was cut.
func Truncate(text string) string {
	if len(text) > MaxPromptChars {
		return text[:MaxPromptChars] + truncationMarker
	}
	return text
}

// GenerationPrompt embeds the RFP text into the PID drafting template.
func GenerationPrompt(rfpText string) string {
	return fmt.Sprintf(generationTemplate, Truncate(rfpText))
}

// RefinementPrompt embeds the current PID and the latest instruction.
// Prior transcript history is deliberately absent: each refinement sees
// only the current document and one instruction.
func RefinementPrompt(currentPID, instruction string) string {
	return fmt.Sprintf(refinementTemplate, Truncate(currentPID), instruction)
}
