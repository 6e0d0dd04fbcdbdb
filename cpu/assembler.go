package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"STACK_PAGE":  fmt.Sprintf("%#v", STACK_PAGE),
	"STACK_RESET": fmt.Sprintf("%#v", STACK_RESET),
}

var (
	labelRegexp     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	characterRegexp = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp     = regexp.MustCompile(`\$\([^\$]*\)`)
)

// mnemonicMap maps lower case mnemonic names.
var mnemonicMap = func() map[string]Mnemonic {
	mnemonics := map[string]Mnemonic{}
	for inst := range Instructions() {
		mnemonics[strings.ToLower(inst.Mnemonic.String())] = inst.Mnemonic
	}
	return mnemonics
}()

// Assembler is a single pass macro assembler for the 6502 subset.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	address   int                 // Address of the next opcode.
	expansion int                 // Count of macro expansions.
	Label     map[string]uint16   // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}
	invert := false
	if word[0] == '~' {
		invert = true
		word = word[1:]
	}
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	text := word
	if strings.HasPrefix(text, "$") {
		text = "0x" + text[1:]
	}
	v64, err := strconv.ParseInt(text, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 <= 0xffffffff && v64 >= -int64(0x80000000) {
		if v64 < 0 {
			value = uint32(0xffffffff + (v64 + 1))
		} else {
			value = uint32(v64)
		}
	}

	if invert {
		value = ^value
	}

	return
}

// byteOf converts a value to a byte. Negative values down to -128 are
// accepted as two's complement.
func byteOf(value uint32) (b uint8, err error) {
	signed := int32(value)
	if value > 0xff && (signed >= 0 || signed < -128) {
		err = ErrValueRange
		return
	}

	b = uint8(value)
	return
}

// wordOf converts a value to a 16-bit address.
func wordOf(value uint32) (w uint16, err error) {
	if value > 0xffff {
		err = ErrValueRange
		return
	}

	w = uint16(value)
	return
}

// operand resolves a word into a value, or into a label to be linked.
func (asm *Assembler) operand(word string) (value uint32, label string, err error) {
	value, err = asm.valueOf(word)
	if err != nil && labelRegexp.MatchString(word) {
		err = nil
		label = word
	}

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be
			// mnemonics or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value32))
	}
	err = nil
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// substitute replaces a word, less any operand prefix, by its equate.
func (asm *Assembler) substitute(word string) string {
	prefix := word[:len(word)-len(strings.TrimLeft(word, "#<>"))]
	equate, ok := asm.Equate[word[len(prefix):]]
	if ok {
		return prefix + equate
	}

	return word
}

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = characterRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#v", value)
	})
	if err != nil {
		return
	}

	words = slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = asm.substitute(words[2])
		words = words[:0]
		return
	}

	for n, word := range words {
		words[n] = asm.substitute(word)
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !labelRegexp.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]uint16, 16)
		}
		asm.Label[label] = uint16(asm.address)
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansion++
		prefix := fmt.Sprintf("%v_%v_", name, asm.expansion)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", fmt.Sprintf("%v%v_", prefix, lineno))
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.address = 0
	asm.expansion = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(strings.ReplaceAll(text_comment[0], "\t", " "))
		words := slices.DeleteFunc(strings.Split(line, " "), func(a string) bool { return len(a) == 0 })

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		target, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		err = op.link(target)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// emit appends an opcode at the current address.
func (asm *Assembler) emit(op Opcode) (err error) {
	if asm.address+len(op.Bytes) > 0x10000 {
		err = ErrAddressRange
		return
	}

	op.Address = uint16(asm.address)
	asm.Opcode = append(asm.Opcode, op)
	asm.address += len(op.Bytes)

	return
}

// parseDirective handles .org, .byte and .word
func (asm *Assembler) parseDirective(words []string, lineno int) (err error) {
	switch words[0] {
	case ".org":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var value uint32
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		var origin uint16
		origin, err = wordOf(value)
		if err != nil {
			return
		}
		asm.address = int(origin)
	case ".byte":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		data := make([]uint8, 0, len(words)-1)
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			var b uint8
			b, err = byteOf(value)
			if err != nil {
				return
			}
			data = append(data, b)
		}
		err = asm.emit(Opcode{LineNo: lineno, Words: words, Bytes: data})
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			var label string
			value, label, err = asm.operand(word)
			if err != nil {
				return
			}
			var w uint16
			w, err = wordOf(value)
			if err != nil {
				return
			}
			op := Opcode{LineNo: lineno, Words: words, Bytes: []uint8{uint8(w & 0xff), uint8(w >> 8)}}
			if len(label) != 0 {
				op.LinkLabel = label
				op.Link = LINK_WORD
			}
			err = asm.emit(op)
			if err != nil {
				return
			}
		}
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	if strings.HasPrefix(words[0], ".") {
		err = asm.parseDirective(words, lineno)
		return
	}

	mnemonic, ok := mnemonicMap[strings.ToLower(words[0])]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if len(words) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	op := Opcode{LineNo: lineno, Words: words}

	mode := MODE_IMPLIED
	var value uint32
	var label string

	if len(words) == 2 {
		arg := words[1]
		link := LINK_ABSOLUTE

		if strings.HasPrefix(arg, "#") {
			mode = MODE_IMMEDIATE
			arg = arg[1:]
			link = LINK_NONE
			switch {
			case strings.HasPrefix(arg, "<"):
				arg = arg[1:]
				link = LINK_LOW
			case strings.HasPrefix(arg, ">"):
				arg = arg[1:]
				link = LINK_HIGH
			}
		} else if slices.Contains(mnemonic.Modes(), MODE_RELATIVE) {
			mode = MODE_RELATIVE
			link = LINK_RELATIVE
		} else {
			mode = MODE_ABSOLUTE
		}

		if len(arg) == 0 {
			err = ErrOpcodeValueMissing
			return
		}

		value, label, err = asm.operand(arg)
		if err != nil {
			return
		}

		if len(label) != 0 {
			if link == LINK_NONE {
				// A bare label is a 16-bit value.
				err = ErrValueRange
				return
			}
			op.LinkLabel = label
			op.Link = link
			value = 0
		} else {
			switch link {
			case LINK_LOW:
				value &= 0xff
			case LINK_HIGH:
				value = (value >> 8) & 0xff
			}
		}
	}

	opcode, ok := Encode(mnemonic, mode)
	if !ok {
		err = ErrModeInvalid
		return
	}

	op.Bytes = []uint8{opcode}

	switch mode {
	case MODE_IMMEDIATE:
		var b uint8
		b, err = byteOf(value)
		if err != nil {
			return
		}
		op.Bytes = append(op.Bytes, b)
	case MODE_ABSOLUTE:
		var w uint16
		w, err = wordOf(value)
		if err != nil {
			return
		}
		op.Bytes = append(op.Bytes, uint8(w&0xff), uint8(w>>8))
	case MODE_RELATIVE:
		var offset uint8
		if len(label) == 0 {
			var target uint16
			target, err = wordOf(value)
			if err != nil {
				return
			}
			offset, err = relative(uint16(asm.address), target)
			if err != nil {
				return
			}
		}
		op.Bytes = append(op.Bytes, offset)
	}

	err = asm.emit(op)

	return
}
