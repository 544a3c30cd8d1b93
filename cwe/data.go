package cwe

var data = map[string]Weakness{
	"20": {
		ID:   "20",
		Name: "Improper Input Validation",
	},
	"22": {
		ID:   "22",
		Name: "Improper Limitation of a Pathname to a Restricted Directory ('Path Traversal')",
	},
	"77": {
		ID:   "77",
		Name: "Improper Neutralization of Special Elements used in a Command ('Command Injection')",
	},
	"78": {
		ID:   "78",
		Name: "Improper Neutralization of Special Elements used in an OS Command ('OS Command Injection')",
	},
	"79": {
		ID:   "79",
		Name: "Improper Neutralization of Input During Web Page Generation ('Cross-site Scripting')",
	},
	"89": {
		ID:   "89",
		Name: "Improper Neutralization of Special Elements used in an SQL Command ('SQL Injection')",
	},
	"94": {
		ID:   "94",
		Name: "Improper Control of Generation of Code ('Code Injection')",
	},
	"119": {
		ID:   "119",
		Name: "Improper Restriction of Operations within the Bounds of a Memory Buffer",
	},
	"125": {
		ID:   "125",
		Name: "Out-of-bounds Read",
	},
	"190": {
		ID:   "190",
		Name: "Integer Overflow or Wraparound",
	},
	"200": {
		ID:   "200",
		Name: "Exposure of Sensitive Information to an Unauthorized Actor",
	},
	"269": {
		ID:   "269",
		Name: "Improper Privilege Management",
	},
	"287": {
		ID:   "287",
		Name: "Improper Authentication",
	},
	"295": {
		ID:   "295",
		Name: "Improper Certificate Validation",
	},
	"306": {
		ID:   "306",
		Name: "Missing Authentication for Critical Function",
	},
	"352": {
		ID:   "352",
		Name: "Cross-Site Request Forgery (CSRF)",
	},
	"362": {
		ID:   "362",
		Name: "Concurrent Execution using Shared Resource with Improper Synchronization ('Race Condition')",
	},
	"400": {
		ID:   "400",
		Name: "Uncontrolled Resource Consumption",
	},
	"416": {
		ID:   "416",
		Name: "Use After Free",
	},
	"434": {
		ID:   "434",
		Name: "Unrestricted Upload of File with Dangerous Type",
	},
	"476": {
		ID:   "476",
		Name: "NULL Pointer Dereference",
	},
	"502": {
		ID:   "502",
		Name: "Deserialization of Untrusted Data",
	},
	"611": {
		ID:   "611",
		Name: "Improper Restriction of XML External Entity Reference",
	},
	"770": {
		ID:   "770",
		Name: "Allocation of Resources Without Limits or Throttling",
	},
	"787": {
		ID:   "787",
		Name: "Out-of-bounds Write",
	},
	"798": {
		ID:   "798",
		Name: "Use of Hard-coded Credentials",
	},
	"862": {
		ID:   "862",
		Name: "Missing Authorization",
	},
	"863": {
		ID:   "863",
		Name: "Incorrect Authorization",
	},
	"918": {
		ID:   "918",
		Name: "Server-Side Request Forgery (SSRF)",
	},
	"1321": {
		ID:   "1321",
		Name: "Improperly Controlled Modification of Object Prototype Attributes ('Prototype Pollution')",
	},
}

// Lookup returns the catalogued weakness for a "CWE-<n>" identifier
func Lookup(cweID string) (Weakness, bool) {
	num, ok := NumericID(cweID)
	if !ok {
		return Weakness{}, false
	}
	w, ok := data[num]
	return w, ok
}
