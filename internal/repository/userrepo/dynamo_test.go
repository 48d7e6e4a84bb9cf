package userrepo

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/logger"
)

// MockDynamo cobre só as chamadas do diretório de usuários.
type MockDynamo struct {
	mock.Mock
}

func (m *MockDynamo) GetItem(ctx context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.GetItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) PutItem(ctx context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.PutItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) UpdateItem(ctx context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*dynamodb.UpdateItemOutput)
	return out, args.Error(1)
}

func (m *MockDynamo) DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	panic("not used")
}

func (m *MockDynamo) Scan(ctx context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	panic("not used")
}

func (m *MockDynamo) TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	panic("not used")
}

func TestDynamo_FindByEmail(t *testing.T) {
	client := new(MockDynamo)
	repo := NewDynamoRepository(client, "ChinaWok-Usuarios", time.Second, logger.Nop())

	client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
		"correo":     &types.AttributeValueMemberS{Value: "ana@mail.com"},
		"nombre":     &types.AttributeValueMemberS{Value: "Ana"},
		"contrasena": &types.AttributeValueMemberS{Value: "x"},
		"role":       &types.AttributeValueMemberS{Value: "Cliente"},
	}}, nil).Once()

	u, err := repo.FindByEmail(context.Background(), "ana@mail.com")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCliente, u.Role)
	assert.Equal(t, "x", u.Contrasena)

	client.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{}, nil).Once()
	_, err = repo.FindByEmail(context.Background(), "ghost@mail.com")
	assert.True(t, apperror.IsNotFound(err))
}

func TestDynamo_UpdateRole_ConditionalOnExistence(t *testing.T) {
	client := new(MockDynamo)
	repo := NewDynamoRepository(client, "ChinaWok-Usuarios", time.Second, logger.Nop())

	client.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
		return aws.ToString(in.ConditionExpression) == "attribute_exists (#0)"
	})).Return(nil, &types.ConditionalCheckFailedException{Message: aws.String("failed")}).Once()

	err := repo.UpdateRole(context.Background(), "ghost@mail.com", domain.RoleGerente)
	assert.True(t, apperror.IsNotFound(err))
	client.AssertExpectations(t)
}
