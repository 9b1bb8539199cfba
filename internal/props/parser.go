// Package props parses shader block.properties files: conditional
// compilation directives, tag definitions, block-to-property assignments,
// and render layer declarations. Parsing is best-effort: malformed lines
// are logged and skipped, and only an underlying read failure aborts.
package props

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"shaderlint/internal/logging"
)

// DefaultNamespace is prepended to block identifiers that lack one.
const DefaultNamespace = "minecraft"

var defineRe = regexp.MustCompile(`^#define\s+(\w+)\s+(.+)$`)

// Result holds the flattened output of a single parse pass. All maps are
// built once and must be treated as read-only by callers.
type Result struct {
	// Blocks maps normalized block IDs (possibly carrying state
	// qualifiers) to their property ID. Last write wins.
	Blocks map[string]int

	// RenderLayers maps normalized block IDs to the declared layer name.
	RenderLayers map[string]string

	// TagDefs holds #define tag definitions in insertion order.
	TagDefs *TagDefinitionMap

	// TagAssignments holds tag-to-property assignments in insertion
	// order. Order drives first-claim-wins resolution.
	TagAssignments *TagAssignmentMap

	// Duplicates records blocks assigned to more than one distinct
	// property ID, listing all distinct IDs in first-seen order.
	Duplicates map[string][]int
}

// Parser parses block.properties content against a fixed preprocessor
// environment. A Parser is immutable and safe for reuse across files.
type Parser struct {
	defines    Defines
	tagSupport bool
}

// NewParser returns a parser evaluating conditionals against defines.
// Tag definitions are only honored when tagSupport is set.
func NewParser(defines Defines, tagSupport bool) *Parser {
	return &Parser{defines: defines, tagSupport: tagSupport}
}

// conditionalContext is one frame of the directive nesting stack.
// supported=false means the directive's condition could not be evaluated;
// its #else branch then becomes the fallback.
type conditionalContext struct {
	supported bool
	active    bool
}

// isActive reports whether every frame of the stack is active.
func isActive(stack []conditionalContext) bool {
	for _, ctx := range stack {
		if !ctx.active {
			return false
		}
	}
	return true
}

// parseRun carries the mutable state of one Parse call.
type parseRun struct {
	parser *Parser
	result *Result
	stack  []conditionalContext
	log    *logging.Logger
}

// ParseFile opens and parses a block.properties file.
func (p *Parser) ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening block.properties: %w", err)
	}
	defer f.Close()
	return p.Parse(f)
}

// Parse reads block.properties content line by line and returns the
// accumulated assignments. An unbalanced conditional stack at end of
// input is a warning, not an error; the partial result is still returned.
func (p *Parser) Parse(r io.Reader) (*Result, error) {
	pr := &parseRun{
		parser: p,
		result: &Result{
			Blocks:         make(map[string]int),
			RenderLayers:   make(map[string]string),
			TagDefs:        NewTagDefinitionMap(),
			TagAssignments: NewTagAssignmentMap(),
			Duplicates:     make(map[string][]int),
		},
		log: logging.Get(logging.CategoryParser),
	}

	sc := bufio.NewScanner(r)
	// Assignment lines joined by continuations can grow long.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for sc.Scan() {
		lineNumber++
		line := strings.TrimSpace(sc.Text())

		// Merge continuation lines (trailing backslash) into one
		// logical line before any other processing.
		if strings.HasSuffix(line, `\`) {
			var merged strings.Builder
			for strings.HasSuffix(line, `\`) {
				part := strings.TrimSpace(strings.TrimSuffix(line, `\`))
				if part != "" {
					if merged.Len() > 0 {
						merged.WriteByte(' ')
					}
					merged.WriteString(part)
				}
				if !sc.Scan() {
					line = ""
					break
				}
				lineNumber++
				line = strings.TrimSpace(sc.Text())
			}
			if line != "" {
				if merged.Len() > 0 {
					merged.WriteByte(' ')
				}
				merged.WriteString(line)
			}
			line = merged.String()
		}

		// Conditional directives are always processed, even inside
		// inactive blocks, because they change the nesting state.
		switch {
		case strings.HasPrefix(line, "#ifdef ") || strings.HasPrefix(line, "#ifndef "):
			pr.handleIfdef(line, lineNumber)
			continue
		case strings.HasPrefix(line, "#if "):
			pr.handleIf(line, lineNumber)
			continue
		case strings.HasPrefix(line, "#else"):
			pr.handleElse(lineNumber)
			continue
		case strings.HasPrefix(line, "#endif"):
			pr.handleEndif(lineNumber)
			continue
		}

		// Everything below only applies inside fully active blocks.
		if !isActive(pr.stack) {
			continue
		}

		// Skip blanks and comments; #define is not a comment.
		if line == "" || (strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#define")) {
			continue
		}

		if strings.HasPrefix(line, "#define") {
			if p.tagSupport {
				pr.handleDefine(line, lineNumber)
			}
			continue
		}

		if strings.Contains(line, "=") {
			pr.handleAssignment(line, lineNumber)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading block.properties at line %d: %w", lineNumber, err)
	}

	if len(pr.stack) > 0 {
		pr.log.Warn("Parsing ended with %d unmatched #if directive(s)", len(pr.stack))
	}

	pr.log.Info("Parsed %d direct block assignments and %d tag definitions",
		len(pr.result.Blocks), pr.result.TagDefs.Len())

	return pr.result, nil
}

// handleIfdef processes #ifdef and #ifndef directives.
func (pr *parseRun) handleIfdef(line string, lineNumber int) {
	isIfndef := strings.HasPrefix(line, "#ifndef")
	prefixLen := len("#ifdef ")
	if isIfndef {
		prefixLen = len("#ifndef ")
	}
	symbol := strings.TrimSpace(line[prefixLen:])

	parentActive := isActive(pr.stack)
	defined, known := pr.parser.defines.Flag(symbol)

	// #ifdef: active if symbol IS defined
	// #ifndef: active if symbol is NOT defined
	condition := isIfndef != defined
	pr.stack = append(pr.stack, conditionalContext{supported: known, active: parentActive && condition})

	pr.log.Debug("Line %d: %s %s -> active=%v known=%v (depth %d)",
		lineNumber, directiveName(isIfndef), symbol, parentActive && condition, known, len(pr.stack))
}

func directiveName(isIfndef bool) string {
	if isIfndef {
		return "#ifndef"
	}
	return "#ifdef"
}

// handleIf processes #if directives. An unevaluable expression pushes an
// unsupported, inactive context; its #else becomes the fallback branch.
func (pr *parseRun) handleIf(line string, lineNumber int) {
	expression := strings.TrimSpace(line[len("#if "):])
	parentActive := isActive(pr.stack)

	switch pr.parser.defines.Evaluate(expression) {
	case TriTrue:
		pr.stack = append(pr.stack, conditionalContext{supported: true, active: parentActive})
		pr.log.Debug("Line %d: #if %s -> true (depth %d)", lineNumber, expression, len(pr.stack))
	case TriFalse:
		pr.stack = append(pr.stack, conditionalContext{supported: true, active: false})
		pr.log.Debug("Line %d: #if %s -> false (depth %d)", lineNumber, expression, len(pr.stack))
	default:
		pr.log.Warn("Line %d: unsupported #if expression: %s", lineNumber, expression)
		pr.stack = append(pr.stack, conditionalContext{supported: false, active: false})
	}
}

// handleElse processes #else directives.
func (pr *parseRun) handleElse(lineNumber int) {
	if len(pr.stack) == 0 {
		pr.log.Warn("Line %d: #else without matching #if", lineNumber)
		return
	}

	current := pr.stack[len(pr.stack)-1]
	pr.stack = pr.stack[:len(pr.stack)-1]
	parentActive := isActive(pr.stack)

	// A supported #if flips its condition; an unsupported one activates
	// the #else as the fallback branch.
	var elseActive bool
	if current.supported {
		elseActive = parentActive && !current.active
	} else {
		elseActive = parentActive
	}

	pr.stack = append(pr.stack, conditionalContext{supported: current.supported, active: elseActive})
	pr.log.Debug("Line %d: #else -> active=%v (depth %d)", lineNumber, elseActive, len(pr.stack))
}

// handleEndif processes #endif directives.
func (pr *parseRun) handleEndif(lineNumber int) {
	if len(pr.stack) == 0 {
		pr.log.Warn("Line %d: #endif without matching #if", lineNumber)
		return
	}
	pr.stack = pr.stack[:len(pr.stack)-1]
}

// handleDefine records a tag definition.
func (pr *parseRun) handleDefine(line string, lineNumber int) {
	m := defineRe.FindStringSubmatch(line)
	if m == nil {
		pr.log.Warn("Line %d: invalid #define directive: %s", lineNumber, line)
		return
	}
	pr.result.TagDefs.Set(m[1], m[2])
	pr.log.Debug("Line %d: defined tag %s = %s", lineNumber, m[1], m[2])
}

// handleAssignment dispatches block.N and layer.NAME assignments.
func (pr *parseRun) handleAssignment(line string, lineNumber int) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return
	}

	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])

	switch {
	case strings.HasPrefix(key, "block."):
		pr.handleBlockProperty(key, value, lineNumber)
	case strings.HasPrefix(key, "layer."):
		pr.handleRenderLayer(key, value, lineNumber)
	}
}

// handleBlockProperty records the block IDs of one block.N assignment.
func (pr *parseRun) handleBlockProperty(key, value string, lineNumber int) {
	idStr := key[len("block."):]
	propertyID, err := strconv.Atoi(idStr)
	if err != nil {
		pr.log.Warn("Line %d: invalid property ID: %s", lineNumber, idStr)
		return
	}

	for _, blockID := range strings.Fields(value) {
		// Tag references claim the token before normalization.
		if pr.result.TagDefs.Has(blockID) {
			pr.result.TagAssignments.Set(blockID, propertyID)
			pr.log.Debug("Line %d: tag %s -> property %d", lineNumber, blockID, propertyID)
			continue
		}

		normalized, ok := normalizeBlockID(blockID)
		if !ok {
			pr.log.Warn("Line %d: invalid block ID: %s", lineNumber, blockID)
			continue
		}

		if existing, assigned := pr.result.Blocks[normalized]; assigned && existing != propertyID {
			pr.addDuplicate(normalized, existing, propertyID)
			pr.log.Debug("Line %d: duplicate block %s mapped to block.%d and block.%d",
				lineNumber, normalized, existing, propertyID)
		}
		pr.result.Blocks[normalized] = propertyID
	}
}

// addDuplicate accumulates the distinct property IDs a block was assigned
// to, in the order they were first seen.
func (pr *parseRun) addDuplicate(blockID string, existing, incoming int) {
	ids := pr.result.Duplicates[blockID]
	if !containsInt(ids, existing) {
		ids = append(ids, existing)
	}
	if !containsInt(ids, incoming) {
		ids = append(ids, incoming)
	}
	pr.result.Duplicates[blockID] = ids
}

func containsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// handleRenderLayer records the block IDs of one layer.NAME assignment.
func (pr *parseRun) handleRenderLayer(key, value string, lineNumber int) {
	layerName := key[len("layer."):]

	for _, blockID := range strings.Fields(value) {
		normalized, ok := normalizeBlockID(blockID)
		if !ok {
			pr.log.Warn("Line %d: invalid block ID: %s", lineNumber, blockID)
			continue
		}
		pr.result.RenderLayers[normalized] = layerName
	}
}

// normalizeBlockID qualifies a block ID with the default namespace when
// missing. Handles "cobweb", "furnace:lit=true", "minecraft:stone", and
// "create:andesite_casing:waterlogged=true". Returns false for blank IDs
// and IDs with a leading or trailing colon.
func normalizeBlockID(blockID string) (string, bool) {
	trimmed := strings.TrimSpace(blockID)
	if trimmed == "" {
		return "", false
	}
	if strings.HasPrefix(trimmed, ":") || strings.HasSuffix(trimmed, ":") {
		return "", false
	}

	parts := strings.Split(trimmed, ":")

	// No namespace at all: "cobweb" -> "minecraft:cobweb".
	if len(parts) == 1 {
		return DefaultNamespace + ":" + trimmed, true
	}

	// "furnace:lit=true" is a vanilla block with a state qualifier, not
	// a namespaced ID.
	if strings.Contains(parts[1], "=") {
		return DefaultNamespace + ":" + trimmed, true
	}

	// Already namespace-qualified.
	return trimmed, true
}

// BaseID strips any state qualifiers from a normalized block ID, leaving
// "namespace:name".
func BaseID(blockID string) string {
	parts := strings.SplitN(blockID, ":", 3)
	if len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return blockID
}
