// Package password turns plaintext passwords into stored verifiers and checks
// candidates against them.
//
// Verifiers are Argon2id digests in a PHC-style encoded string:
//
//	$argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
//
// A fresh salt is drawn per call, so hashing the same password twice yields
// different verifiers. Verify treats the encoded verifier as untrusted input:
// it is parsed strictly, its cost parameters are bounds-checked so an
// attacker-supplied verifier cannot drive pathological resource usage, and
// derived keys are compared in constant time.
package password
