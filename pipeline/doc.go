// Package pipeline holds an ordered list of stages and runs a value through
// them left to right.
//
// A Pipeline has two phases. While it is being built, stages are appended
// with AddStage. The first call to Process (or an explicit Freeze) ends the
// build phase; from then on the stage list never changes and Process may be
// called from any number of goroutines.
//
// Pipelines are usually assembled from a Definition:
//
//	name: normalize
//	stages:
//	  - kind: pre_processor
//	  - kind: tokenizer
//	    params:
//	      trim_punctuation: true
//	  - kind: lowercase
//	  - kind: post_processor
//
// and built against a stage.Registry with FromDefinition.
package pipeline
