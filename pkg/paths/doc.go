// Package paths provides the path handling shared by texmerge: home
// directory expansion, normalization against an explicit base directory
// and containment checks. Nothing here consults the process working
// directory; callers always pass the base they mean.
package paths
