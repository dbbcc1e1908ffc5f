// Package testsupport offers fixtures shared by package tests: a scripted
// git executor stub and a helper that initializes throwaway repositories.
package testsupport
