// Package library finds markable videos in the configured input folder.
package library
