package jsdoc

const mdn = "https://developer.mozilla.org/en-US/docs/Web/JavaScript/Reference/"

// Builtins returns the built-in documentation table.
func Builtins() *Table {
	return New(builtins)
}

var builtins = map[string]Entry{
	"parseInt": {
		Description: "Parses a string argument and returns an integer of the specified radix.",
		Usage:       "parseInt(string, radix)",
		URL:         mdn + "Global_Objects/parseInt",
	},
	"parseFloat": {
		Description: "Parses a string argument and returns a floating point number.",
		Usage:       "parseFloat(string)",
		URL:         mdn + "Global_Objects/parseFloat",
	},
	"isNaN": {
		Description: "Determines whether a value is NaN.",
		Usage:       "isNaN(value)",
		URL:         mdn + "Global_Objects/isNaN",
	},
	"encodeURIComponent": {
		Description: "Encodes a URI component by escaping special characters.",
		Usage:       "encodeURIComponent(uriComponent)",
		URL:         mdn + "Global_Objects/encodeURIComponent",
	},
	"JSON.parse": {
		Description: "Parses a JSON string, constructing the value it describes.",
		Usage:       "JSON.parse(text[, reviver])",
		URL:         mdn + "Global_Objects/JSON/parse",
	},
	"JSON.stringify": {
		Description: "Converts a value to a JSON string.",
		Usage:       "JSON.stringify(value[, replacer[, space]])",
		URL:         mdn + "Global_Objects/JSON/stringify",
	},
	"Math.max": {
		Description: "Returns the largest of the given numbers.",
		Usage:       "Math.max(value1, value2, ...)",
		URL:         mdn + "Global_Objects/Math/max",
	},
	"Math.min": {
		Description: "Returns the smallest of the given numbers.",
		Usage:       "Math.min(value1, value2, ...)",
		URL:         mdn + "Global_Objects/Math/min",
	},
	"Math.random": {
		Description: "Returns a pseudo-random number between 0 (inclusive) and 1 (exclusive).",
		Usage:       "Math.random()",
		URL:         mdn + "Global_Objects/Math/random",
	},
	"Object.keys": {
		Description: "Returns an array of an object's own enumerable property names.",
		Usage:       "Object.keys(obj)",
		URL:         mdn + "Global_Objects/Object/keys",
	},
	"Object.getPrototypeOf": {
		Description: "Returns the prototype of the specified object.",
		Usage:       "Object.getPrototypeOf(obj)",
		URL:         mdn + "Global_Objects/Object/getPrototypeOf",
	},
	"Array.isArray": {
		Description: "Determines whether the passed value is an Array.",
		Usage:       "Array.isArray(value)",
		URL:         mdn + "Global_Objects/Array/isArray",
	},
	"Array.prototype.forEach": {
		Description: "Executes a provided function once per array element.",
		Usage:       "arr.forEach(callback[, thisArg])",
		URL:         mdn + "Global_Objects/Array/forEach",
	},
	"Array.prototype.map": {
		Description: "Creates a new array with the results of calling a function on every element.",
		Usage:       "arr.map(callback[, thisArg])",
		URL:         mdn + "Global_Objects/Array/map",
	},
	"Array.prototype.filter": {
		Description: "Creates a new array with the elements that pass the test.",
		Usage:       "arr.filter(callback[, thisArg])",
		URL:         mdn + "Global_Objects/Array/filter",
	},
	"Array.prototype.slice": {
		Description: "Returns a shallow copy of a portion of an array into a new array.",
		Usage:       "arr.slice([begin[, end]])",
		URL:         mdn + "Global_Objects/Array/slice",
	},
	"Array.prototype.push": {
		Description: "Adds one or more elements to the end of an array and returns the new length.",
		Usage:       "arr.push(element1, ..., elementN)",
		URL:         mdn + "Global_Objects/Array/push",
	},
	"String.prototype.trim": {
		Description: "Removes whitespace from both ends of a string.",
		Usage:       "str.trim()",
		URL:         mdn + "Global_Objects/String/trim",
	},
	"String.prototype.split": {
		Description: "Splits a string into an array of substrings.",
		Usage:       "str.split([separator[, limit]])",
		URL:         mdn + "Global_Objects/String/split",
	},
	"String.prototype.replace": {
		Description: "Returns a new string with some or all matches of a pattern replaced.",
		Usage:       "str.replace(pattern, replacement)",
		URL:         mdn + "Global_Objects/String/replace",
	},
	"Function.prototype.bind": {
		Description: "Creates a new function with this bound to the provided value.",
		Usage:       "fn.bind(thisArg[, arg1[, arg2[, ...]]])",
		URL:         mdn + "Global_Objects/Function/bind",
	},
	"Function.prototype.call": {
		Description: "Calls a function with a given this value and arguments provided individually.",
		Usage:       "fn.call(thisArg[, arg1[, arg2[, ...]]])",
		URL:         mdn + "Global_Objects/Function/call",
	},
	"Error.prototype.toString": {
		Description: "Returns a string representing the error.",
		Usage:       "err.toString()",
		URL:         mdn + "Global_Objects/Error/toString",
	},
	"Error.prototype.message": {
		Description: "Human-readable description of the error.",
		URL:         mdn + "Global_Objects/Error/message",
	},
	"Error.prototype.name": {
		Description: "Name of the error type.",
		URL:         mdn + "Global_Objects/Error/name",
	},
	"TypedArray.prototype.fill": {
		Description: "Fills all the elements of a typed array with a static value.",
		Usage:       "ta.fill(value[, start[, end]])",
		URL:         mdn + "Global_Objects/TypedArray/fill",
	},
	"TypedArray.prototype.subarray": {
		Description: "Returns a new typed array on the same buffer over a subrange.",
		Usage:       "ta.subarray([begin[, end]])",
		URL:         mdn + "Global_Objects/TypedArray/subarray",
	},
	"TypedArray.prototype.set": {
		Description: "Stores multiple values in a typed array from a given array.",
		Usage:       "ta.set(array[, offset])",
		URL:         mdn + "Global_Objects/TypedArray/set",
	},
	"console.log": {
		Description: "Outputs a message to the standard output stream.",
		Usage:       "console.log(obj1 [, obj2, ..., objN])",
		URL:         mdn + "Global_Objects/console/log",
	},
	"console.error": {
		Description: "Outputs a message to the standard error stream.",
		Usage:       "console.error(obj1 [, obj2, ..., objN])",
		URL:         mdn + "Global_Objects/console/error",
	},
	"Promise.resolve": {
		Description: "Returns a Promise resolved with the given value.",
		Usage:       "Promise.resolve(value)",
		URL:         mdn + "Global_Objects/Promise/resolve",
	},
}
