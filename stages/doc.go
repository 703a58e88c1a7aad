// Package stages provides the built-in text processing stages and registers
// them under their kind names.
//
// A typical pipeline reads raw input, splits it into tokens and normalizes
// each token before handing a structured value to the caller:
//
//	pre_processor -> tokenizer -> lowercase -> spelling_mapper -> lemmatizer -> post_processor
//
// Every stage is immutable after construction and safe for concurrent use.
package stages
