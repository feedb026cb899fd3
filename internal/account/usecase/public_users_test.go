package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/lukrlier/notabene/internal/account/entity"
	"github.com/lukrlier/notabene/internal/shared/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParsePublicUserFilter(t *testing.T) {
	tests := []struct {
		name    string
		in      PublicUsersInput
		want    entity.PublicUserFilter
		wantErr bool
	}{
		{
			name: "Defaults",
			want: entity.PublicUserFilter{Limit: 20, SortField: "id", SortDir: entity.SortAsc},
		},
		{
			name: "PageAndSort",
			in:   PublicUsersInput{Page: 2, Size: 10, Sort: "login,DESC"},
			want: entity.PublicUserFilter{Limit: 10, Offset: 20, SortField: "login", SortDir: entity.SortDesc},
		},
		{
			name: "FieldOnly",
			in:   PublicUsersInput{Sort: "login"},
			want: entity.PublicUserFilter{Limit: 20, SortField: "login", SortDir: entity.SortAsc},
		},
		{name: "UnknownField", in: PublicUsersInput{Sort: "password_hash,asc"}, wantErr: true},
		{name: "UnknownDirection", in: PublicUsersInput{Sort: "id,sideways"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePublicUserFilter(tt.in)
			if tt.wantErr {
				assertProblem(t, err, 400, problem.ConstraintViolationType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsecase_PublicUsers(t *testing.T) {
	f := newFixture(t)
	users := []entity.PublicUser{{ID: 1, Login: "admin"}, {ID: 2, Login: "user"}}
	f.db.On("ListPublicUsers", mock.Anything, entity.PublicUserFilter{Limit: 20, SortField: "id", SortDir: entity.SortAsc}).
		Return(users, int64(2), nil).Once()

	out, err := f.uc.PublicUsers(context.Background(), PublicUsersInput{})
	require.NoError(t, err)
	assert.Equal(t, users, out.Users)
	assert.Equal(t, int64(2), out.Total)

	_, err = f.uc.PublicUsers(context.Background(), PublicUsersInput{Size: 1000})
	assertProblem(t, err, 400, problem.ConstraintViolationType)

	f.db.On("ListPublicUsers", mock.Anything, mock.Anything).Return(nil, int64(0), errors.New("db down")).Once()
	_, err = f.uc.PublicUsers(context.Background(), PublicUsersInput{Page: 1})
	assertProblem(t, err, 500, problem.DefaultType)
}

func TestUsecase_Authorities(t *testing.T) {
	f := newFixture(t)
	f.db.On("ListAuthorities", mock.Anything).Return([]string{entity.AuthorityAdmin, entity.AuthorityUser}, nil).Once()

	names, err := f.uc.Authorities(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{entity.AuthorityAdmin, entity.AuthorityUser}, names)

	f.db.On("ListAuthorities", mock.Anything).Return(nil, errors.New("db down")).Once()
	_, err = f.uc.Authorities(context.Background())
	assertProblem(t, err, 500, problem.DefaultType)
}
