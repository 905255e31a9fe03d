// Package ir is the program representation the generator appends to: a flat
// list of instructions over SSA variables, with explicit block markers.
package ir

// Opcode identifies an instruction
type Opcode uint8

const (
	// Literals
	LoadInteger   Opcode = iota // v = Int
	LoadFloat                   // v = Float
	LoadString                  // v = Str
	LoadBoolean                 // v = Bool
	LoadUndefined               // v = undefined
	LoadNull                    // v = null
	LoadBuiltin                 // v = global named Str

	// Collections
	CreateObject           // v = {Names[i]: in[i]}
	CreateObjectWithSpread // v = {Names[i]: in[i] | ...in[i]}
	CreateArray            // v = [in...]
	CreateArrayWithSpread  // v = [in | ...in]

	// Property and element access
	LoadProperty           // v = in0.Str
	StoreProperty          // in0.Str = in1
	DeleteProperty         // v = delete in0.Str
	LoadElement            // v = in0[Int]
	StoreElement           // in0[Int] = in1
	DeleteElement          // v = delete in0[Int]
	LoadComputedProperty   // v = in0[in1]
	StoreComputedProperty  // in0[in1] = in2
	DeleteComputedProperty // v = delete in0[in1]

	// Calls
	CallFunction // v = in0(in1...)
	CallMethod   // v = in0.Str(in1...)
	Construct    // v = new in0(in1...)

	// Operators
	UnaryOperation  // v = Unary in0
	BinaryOperation // v = in0 Binary in1
	Compare         // v = in0 Compare in1
	TypeOf          // v = typeof in0
	InstanceOf      // v = in0 instanceof in1
	In              // v = in0 in in1

	// Join slots
	Phi  // v = in0, v may later be the target of Copy
	Copy // in0 = in1, in0 must be a phi

	// Functions
	BeginFunction // v = function(Inner...) {
	Return        // return in0
	EndFunction   // }

	// Conditionals
	BeginIf   // if (in0) {
	BeginElse // } else {
	EndIf     // }

	// Loops
	BeginWhile   // while (in0 Compare in1) {
	EndWhile     // }
	BeginDoWhile // do {
	EndDoWhile   // } while (in0 Compare in1) taken from BeginDoWhile
	BeginFor     // for (let Inner0 = in0; Inner0 Compare in1; Inner0 = Inner0 Binary in2) {
	EndFor       // }
	BeginForIn   // for (const Inner0 in in0) {
	EndForIn     // }
	BeginForOf   // for (const Inner0 of in0) {
	EndForOf     // }
	Break        // break
	Continue     // continue

	// Exceptions
	BeginTry       // try {
	BeginCatch     // } catch (Inner0) {
	EndTryCatch    // }
	ThrowException // throw in0

	// Scope statements
	BeginWith     // with (in0) {
	EndWith       // }
	LoadFromScope // v = Str
	StoreToScope  // Str = in0

	opcodeCount
)

const (
	flagBlockBegin = 1 << iota
	flagBlockEnd
	flagLoop
	flagFunction
	flagWith
	flagOwnsPhis
)

type opInfo struct {
	name  string
	flags int
	// begin is the opcode opening the block an end (or mid) marker closes.
	begin Opcode
}

var opInfos = [opcodeCount]opInfo{
	LoadInteger:            {name: "LoadInteger"},
	LoadFloat:              {name: "LoadFloat"},
	LoadString:             {name: "LoadString"},
	LoadBoolean:            {name: "LoadBoolean"},
	LoadUndefined:          {name: "LoadUndefined"},
	LoadNull:               {name: "LoadNull"},
	LoadBuiltin:            {name: "LoadBuiltin"},
	CreateObject:           {name: "CreateObject"},
	CreateObjectWithSpread: {name: "CreateObjectWithSpread"},
	CreateArray:            {name: "CreateArray"},
	CreateArrayWithSpread:  {name: "CreateArrayWithSpread"},
	LoadProperty:           {name: "LoadProperty"},
	StoreProperty:          {name: "StoreProperty"},
	DeleteProperty:         {name: "DeleteProperty"},
	LoadElement:            {name: "LoadElement"},
	StoreElement:           {name: "StoreElement"},
	DeleteElement:          {name: "DeleteElement"},
	LoadComputedProperty:   {name: "LoadComputedProperty"},
	StoreComputedProperty:  {name: "StoreComputedProperty"},
	DeleteComputedProperty: {name: "DeleteComputedProperty"},
	CallFunction:           {name: "CallFunction"},
	CallMethod:             {name: "CallMethod"},
	Construct:              {name: "Construct"},
	UnaryOperation:         {name: "UnaryOperation"},
	BinaryOperation:        {name: "BinaryOperation"},
	Compare:                {name: "Compare"},
	TypeOf:                 {name: "TypeOf"},
	InstanceOf:             {name: "InstanceOf"},
	In:                     {name: "In"},
	Phi:                    {name: "Phi"},
	Copy:                   {name: "Copy"},
	BeginFunction:          {name: "BeginFunction", flags: flagBlockBegin | flagFunction},
	Return:                 {name: "Return"},
	EndFunction:            {name: "EndFunction", flags: flagBlockEnd, begin: BeginFunction},
	BeginIf:                {name: "BeginIf", flags: flagBlockBegin | flagOwnsPhis},
	BeginElse:              {name: "BeginElse", flags: flagBlockBegin | flagBlockEnd, begin: BeginIf},
	EndIf:                  {name: "EndIf", flags: flagBlockEnd, begin: BeginIf},
	BeginWhile:             {name: "BeginWhile", flags: flagBlockBegin | flagLoop | flagOwnsPhis},
	EndWhile:               {name: "EndWhile", flags: flagBlockEnd, begin: BeginWhile},
	BeginDoWhile:           {name: "BeginDoWhile", flags: flagBlockBegin | flagLoop | flagOwnsPhis},
	EndDoWhile:             {name: "EndDoWhile", flags: flagBlockEnd, begin: BeginDoWhile},
	BeginFor:               {name: "BeginFor", flags: flagBlockBegin | flagLoop},
	EndFor:                 {name: "EndFor", flags: flagBlockEnd, begin: BeginFor},
	BeginForIn:             {name: "BeginForIn", flags: flagBlockBegin | flagLoop},
	EndForIn:               {name: "EndForIn", flags: flagBlockEnd, begin: BeginForIn},
	BeginForOf:             {name: "BeginForOf", flags: flagBlockBegin | flagLoop},
	EndForOf:               {name: "EndForOf", flags: flagBlockEnd, begin: BeginForOf},
	Break:                  {name: "Break"},
	Continue:               {name: "Continue"},
	BeginTry:               {name: "BeginTry", flags: flagBlockBegin | flagOwnsPhis},
	BeginCatch:             {name: "BeginCatch", flags: flagBlockBegin | flagBlockEnd, begin: BeginTry},
	EndTryCatch:            {name: "EndTryCatch", flags: flagBlockEnd, begin: BeginTry},
	ThrowException:         {name: "ThrowException"},
	BeginWith:              {name: "BeginWith", flags: flagBlockBegin | flagWith},
	EndWith:                {name: "EndWith", flags: flagBlockEnd, begin: BeginWith},
	LoadFromScope:          {name: "LoadFromScope"},
	StoreToScope:           {name: "StoreToScope"},
}

func (op Opcode) String() string {
	if op < opcodeCount {
		return opInfos[op].name
	}
	return "Unknown"
}

// IsBlockBegin reports whether op opens a block (BeginElse and BeginCatch both close and open one).
func (op Opcode) IsBlockBegin() bool { return op < opcodeCount && opInfos[op].flags&flagBlockBegin != 0 }

// IsBlockEnd reports whether op closes a block.
func (op Opcode) IsBlockEnd() bool { return op < opcodeCount && opInfos[op].flags&flagBlockEnd != 0 }

// IsLoop reports whether op opens a loop body.
func (op Opcode) IsLoop() bool { return op < opcodeCount && opInfos[op].flags&flagLoop != 0 }

// IsCountedLoop reports whether op opens a loop bounded by its inputs:
// while, do-while and for.
func (op Opcode) IsCountedLoop() bool {
	return op == BeginWhile || op == BeginDoWhile || op == BeginFor
}

// OwnsPhis reports whether the construct opened by op may own join slots.
func (op Opcode) OwnsPhis() bool { return op < opcodeCount && opInfos[op].flags&flagOwnsPhis != 0 }

func (op Opcode) isFunction() bool { return op < opcodeCount && opInfos[op].flags&flagFunction != 0 }

func (op Opcode) isWith() bool { return op < opcodeCount && opInfos[op].flags&flagWith != 0 }

// construct returns the opcode opening the construct op belongs to.
func (op Opcode) construct() Opcode {
	if op.IsBlockEnd() {
		return opInfos[op].begin
	}
	return op
}
