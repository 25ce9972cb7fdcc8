package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildProblemScalesWithInstanceSize(t *testing.T) {
	// Arrange
	small := instance{Name: "small", Departments: 1, Sections: 2, Courses: 3, Teachers: 4}
	large := instance{Name: "large", Departments: 2, Sections: 2, Courses: 3, Teachers: 4}

	// Act
	smallProblem := buildProblem(small, 1)
	largeProblem := buildProblem(large, 1)

	// Assert: doubling the departments doubles the session count
	assert.NotEmpty(t, smallProblem.Sessions)
	assert.Equal(t, 2*len(smallProblem.Sessions), len(largeProblem.Sessions))
	assert.Len(t, smallProblem.Groups, 2)
	assert.Len(t, largeProblem.Groups, 4)
}

func TestBuildProblemDeterministic(t *testing.T) {
	// Arrange
	inst := instance{Name: "tiny", Departments: 1, Sections: 1, Courses: 2, Teachers: 2}

	// Act
	first := buildProblem(inst, 7)
	second := buildProblem(inst, 7)

	// Assert
	assert.Equal(t, len(first.Sessions), len(second.Sessions))
	for i := range first.Sessions {
		assert.Equal(t, first.Sessions[i].Id, second.Sessions[i].Id)
		assert.Equal(t, first.Sessions[i].Type, second.Sessions[i].Type)
	}
}
