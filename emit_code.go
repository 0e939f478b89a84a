package devalue

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// emitCode renders a flattened Table as a single JS expression, the
// uneval form: something that can be pasted straight into source code
// (or eval'd) and re-produces the original graph, cycles and shared
// references included. It follows the classic devalue technique:
//  1. a ref-count + cycle prepass decides which slots must be hoisted
//     into a `var _N` rather than inlined at every use site;
//  2. hoisted containers (Array/Object/Map/Set) get an empty shell
//     statement up front, then populate statements that may reference
//     any other hoisted slot — including themselves, which is how a
//     cycle round-trips through plain JS syntax;
//  3. everything else is inlined recursively as ordinary expression
//     text.
// A cyclic reference through a BigInt/Date/RegExp/Custom slot has no
// shell representation (there is no empty-BigInt literal to populate
// later), so that case is reported as CycleInPrimitiveForm instead.
func emitCode(t Table) (string, error) {
	ce := &codeEmitter{table: t}
	ce.forceHoist = detectCycles(t)
	ce.needsVar = make([]bool, len(t.Slots))
	ce.scalarDone = make([]bool, len(t.Slots))
	ce.built = make([]bool, len(t.Slots))

	refCounts := make([]int, len(t.Slots))
	for _, s := range t.Slots {
		for _, r := range slotRefs(s) {
			if r >= 0 {
				refCounts[r]++
			}
		}
	}
	for i := range t.Slots {
		ce.needsVar[i] = ce.forceHoist[i] || refCounts[i] > 1
	}

	for i := range t.Slots {
		if ce.needsVar[i] {
			if err := ce.build(i); err != nil {
				return "", err
			}
		}
	}
	for i := range t.Slots {
		if ce.needsVar[i] && !ce.isContainer(i) {
			if err := ce.finalizeScalar(i); err != nil {
				return "", err
			}
		}
	}

	rootExpr, err := ce.ref(t.Root)
	if err != nil {
		return "", err
	}

	var hoisted []int
	for i, v := range ce.needsVar {
		if v {
			hoisted = append(hoisted, i)
		}
	}
	sort.Ints(hoisted)

	if len(hoisted) == 0 {
		return rootExpr, nil
	}

	var names []string
	for _, i := range hoisted {
		names = append(names, "_"+strconv.Itoa(i))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "(function(){var %s;", strings.Join(names, ","))
	for _, stmt := range ce.shells {
		b.WriteString(stmt)
		b.WriteByte(';')
	}
	for _, stmt := range ce.populates {
		b.WriteString(stmt)
		b.WriteByte(';')
	}
	fmt.Fprintf(&b, "return %s;})()", rootExpr)
	return b.String(), nil
}

type codeEmitter struct {
	table      Table
	forceHoist []bool
	needsVar   []bool
	built      []bool // hoisted container's shell emitted
	scalarDone []bool // hoisted scalar/custom's final value emitted

	shells    []string
	populates []string
}

func (ce *codeEmitter) isContainer(i int) bool {
	switch ce.table.Slots[i].(type) {
	case []int, orderedObject:
		return true
	case []any:
		v := ce.table.Slots[i].([]any)
		if len(v) == 0 {
			return false
		}
		tag, _ := v[0].(string)
		return tag == "Map" || tag == "Set"
	}
	return false
}

// ref renders a reference (a resolved index or a reserved sentinel
// code) as the JS expression to use at a use site.
func (ce *codeEmitter) ref(r int) (string, error) {
	switch r {
	case refUndefined:
		return "void 0", nil
	case refPosInf:
		return "Infinity", nil
	case refNegInf:
		return "-Infinity", nil
	case refNaN:
		return "NaN", nil
	case refNegZero:
		return "-0", nil
	}
	if r < 0 {
		return "", newInvalidInput(rootPath(), fmt.Sprintf("unrecognized reference code %d", r), nil)
	}
	if ce.needsVar[r] {
		return "_" + strconv.Itoa(r), nil
	}
	return ce.renderFull(r)
}

// build emits the shell (and, for containers, the populate statements)
// for a hoisted container slot. Hoisted scalar/custom slots are handled
// separately by finalizeScalar, once every container shell already
// exists.
func (ce *codeEmitter) build(i int) error {
	if ce.built[i] {
		return nil
	}
	ce.built[i] = true

	switch v := ce.table.Slots[i].(type) {
	case []int:
		ce.shells = append(ce.shells, fmt.Sprintf("_%d = []", i))
		for idx, r := range v {
			if r == refHole {
				continue
			}
			expr, err := ce.ref(r)
			if err != nil {
				return err
			}
			ce.populates = append(ce.populates, fmt.Sprintf("_%d[%d] = %s", i, idx, expr))
		}
	case orderedObject:
		ce.shells = append(ce.shells, fmt.Sprintf("_%d = {}", i))
		for _, f := range v {
			expr, err := ce.ref(f.Ref)
			if err != nil {
				return err
			}
			ce.populates = append(ce.populates, fmt.Sprintf("_%d[%s] = %s", i, escapeString(f.Key), expr))
		}
	case []any:
		tag, _ := v[0].(string)
		switch tag {
		case "Map":
			ce.shells = append(ce.shells, fmt.Sprintf("_%d = new Map()", i))
			for p := 1; p+1 < len(v); p += 2 {
				kExpr, err := ce.ref(v[p].(int))
				if err != nil {
					return err
				}
				vExpr, err := ce.ref(v[p+1].(int))
				if err != nil {
					return err
				}
				ce.populates = append(ce.populates, fmt.Sprintf("_%d.set(%s, %s)", i, kExpr, vExpr))
			}
		case "Set":
			ce.shells = append(ce.shells, fmt.Sprintf("_%d = new Set()", i))
			for _, x := range v[1:] {
				expr, err := ce.ref(x.(int))
				if err != nil {
					return err
				}
				ce.populates = append(ce.populates, fmt.Sprintf("_%d.add(%s)", i, expr))
			}
		default:
			// BigInt/Date/RegExp/Custom: handled by finalizeScalar once
			// every container shell exists, so payload refs resolve.
		}
	}
	return nil
}

// finalizeScalar assigns the real value of a hoisted BigInt, Date,
// RegExp or Custom slot. Custom payloads can themselves reference
// another hoisted scalar, so dependencies are finalized first,
// recursively; detectCycles already ruled out a genuine cycle through
// this chain, so the recursion is guaranteed to terminate.
func (ce *codeEmitter) finalizeScalar(i int) error {
	if ce.scalarDone[i] {
		return nil
	}
	if ce.forceHoist[i] {
		return newCycleInPrimitiveForm(rootPath())
	}
	ce.scalarDone[i] = true

	if v, ok := ce.table.Slots[i].([]any); ok && len(v) >= 2 {
		if tag, _ := v[0].(string); tag != "Map" && tag != "Set" && tag != "BigInt" && tag != "Date" && tag != "RegExp" {
			if payloadRef, ok := v[1].(int); ok && payloadRef >= 0 && ce.needsVar[payloadRef] && !ce.isContainer(payloadRef) {
				if err := ce.finalizeScalar(payloadRef); err != nil {
					return err
				}
			}
		}
	}

	expr, err := ce.renderFull(i)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("_%d = %s", i, expr)
	if len(slotRefs(ce.table.Slots[i])) == 0 {
		// Refers to no other slot, so it is assigned alongside the shells,
		// before any populate statement reads it.
		ce.shells = append(ce.shells, stmt)
		return nil
	}
	ce.populates = append(ce.populates, stmt)
	return nil
}

// renderFull builds the full inline expression for slot i's own
// content, recursing into children via ref (which may itself just
// return a hoisted variable name).
func (ce *codeEmitter) renderFull(i int) (string, error) {
	switch v := ce.table.Slots[i].(type) {
	case nil:
		return "null", nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	case string:
		return escapeString(v), nil
	case float64:
		return formatNumber(v), nil
	case []int:
		parts := make([]string, len(v))
		for idx, r := range v {
			if r == refHole {
				parts[idx] = ""
				continue
			}
			expr, err := ce.ref(r)
			if err != nil {
				return "", err
			}
			parts[idx] = expr
		}
		return "[" + strings.Join(parts, ",") + "]", nil
	case orderedObject:
		parts := make([]string, len(v))
		for idx, f := range v {
			expr, err := ce.ref(f.Ref)
			if err != nil {
				return "", err
			}
			parts[idx] = escapeKey(f.Key) + ":" + expr
		}
		return "{" + strings.Join(parts, ",") + "}", nil
	case []any:
		return ce.renderTagged(v)
	}
	return "", newInvalidInput(rootPath(), "unrecognized slot content", nil)
}

func (ce *codeEmitter) renderTagged(v []any) (string, error) {
	tag, _ := v[0].(string)
	switch tag {
	case "BigInt":
		return v[1].(string) + "n", nil
	case "Date":
		return "new Date(" + escapeString(v[1].(string)) + ")", nil
	case "RegExp":
		if len(v) == 3 {
			return "new RegExp(" + escapeString(v[1].(string)) + ", " + escapeString(v[2].(string)) + ")", nil
		}
		return "new RegExp(" + escapeString(v[1].(string)) + ")", nil
	case "Map":
		parts := make([]string, 0, (len(v)-1)/2)
		for p := 1; p+1 < len(v); p += 2 {
			kExpr, err := ce.ref(v[p].(int))
			if err != nil {
				return "", err
			}
			vExpr, err := ce.ref(v[p+1].(int))
			if err != nil {
				return "", err
			}
			parts = append(parts, "["+kExpr+","+vExpr+"]")
		}
		return "new Map([" + strings.Join(parts, ",") + "])", nil
	case "Set":
		parts := make([]string, 0, len(v)-1)
		for _, x := range v[1:] {
			expr, err := ce.ref(x.(int))
			if err != nil {
				return "", err
			}
			parts = append(parts, expr)
		}
		return "new Set([" + strings.Join(parts, ",") + "])", nil
	default:
		payloadExpr, err := ce.ref(v[1].(int))
		if err != nil {
			return "", err
		}
		if !isIdentifier(tag) {
			return "", newUnsupportedValue(rootPath(), "Custom("+tag+")")
		}
		return tag + "(" + payloadExpr + ")", nil
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// slotRefs extracts the child slot references out of a slot's content,
// ignoring inlined string payloads (BigInt digits, Date's ISO string,
// RegExp source/flags) which are not references at all.
func slotRefs(content any) []int {
	switch v := content.(type) {
	case []int:
		var refs []int
		for _, r := range v {
			if r >= 0 {
				refs = append(refs, r)
			}
		}
		return refs
	case orderedObject:
		refs := make([]int, 0, len(v))
		for _, f := range v {
			if f.Ref >= 0 {
				refs = append(refs, f.Ref)
			}
		}
		return refs
	case []any:
		if len(v) == 0 {
			return nil
		}
		tag, ok := v[0].(string)
		if !ok {
			return nil
		}
		switch tag {
		case "Map", "Set":
			refs := make([]int, 0, len(v)-1)
			for _, x := range v[1:] {
				if r, ok := x.(int); ok && r >= 0 {
					refs = append(refs, r)
				}
			}
			return refs
		case "BigInt", "Date", "RegExp":
			return nil
		default:
			if len(v) >= 2 {
				if r, ok := v[1].(int); ok && r >= 0 {
					return []int{r}
				}
			}
			return nil
		}
	}
	return nil
}

// detectCycles finds every slot that is its own (possibly indirect)
// ancestor in the reference graph — the slots a plain recursive-descent
// emitter could never finish rendering inline.
func detectCycles(t Table) []bool {
	n := len(t.Slots)
	visited := make([]bool, n)
	onStack := make([]bool, n)
	forceHoist := make([]bool, n)

	var visit func(i int)
	visit = func(i int) {
		if onStack[i] {
			forceHoist[i] = true
			return
		}
		if visited[i] {
			return
		}
		visited[i] = true
		onStack[i] = true
		for _, r := range slotRefs(t.Slots[i]) {
			visit(r)
		}
		onStack[i] = false
	}
	for i := 0; i < n; i++ {
		visit(i)
	}
	return forceHoist
}
