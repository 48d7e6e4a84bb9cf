package userrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"golocales/internal/domain"
	apperror "golocales/internal/errors"
	"golocales/internal/pkg/dynamo"
	"golocales/internal/pkg/logger"
)

// DynamoRepository lê e altera a tabela de usuários (chave correo).
type DynamoRepository struct {
	client  dynamo.API
	table   string
	timeout time.Duration
	logger  logger.Logger
}

func NewDynamoRepository(client dynamo.API, table string, timeout time.Duration, log logger.Logger) *DynamoRepository {
	return &DynamoRepository{client: client, table: table, timeout: timeout, logger: log}
}

func userKey(correo string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"correo": &types.AttributeValueMemberS{Value: correo}}
}

func (r *DynamoRepository) FindByEmail(ctx context.Context, correo string) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.client.GetItem(ctxTimeout, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       userKey(correo),
	})
	if err != nil {
		r.logger.Error("Falha ao buscar usuário no DynamoDB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao buscar usuário", err)
	}
	if out.Item == nil {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuario '%s' no encontrado", correo))
	}

	var user domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao decodificar usuário", err)
	}
	return user, nil
}

// UpdateRole usa attribute_exists(correo) para nunca criar um usuário parcial.
func (r *DynamoRepository) UpdateRole(ctx context.Context, correo string, role domain.Role) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	expr, err := expression.NewBuilder().
		WithUpdate(expression.Set(expression.Name("role"), expression.Value(string(role)))).
		WithCondition(expression.AttributeExists(expression.Name("correo"))).
		Build()
	if err != nil {
		return apperror.NewInternalError("Falha ao montar atualização", err)
	}

	_, err = r.client.UpdateItem(ctxTimeout, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.table),
		Key:                       userKey(correo),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return apperror.NewNotFoundError(fmt.Sprintf("Usuario '%s' no encontrado", correo))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar papel no DynamoDB.", err)
		return apperror.NewDBError("Falha ao atualizar papel", err)
	}
	return nil
}

func (r *DynamoRepository) Save(ctx context.Context, user domain.User) (domain.User, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao serializar usuário", err)
	}
	if _, err := r.client.PutItem(ctxTimeout, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}); err != nil {
		r.logger.Error("Falha ao salvar usuário no DynamoDB.", err)
		return domain.User{}, apperror.NewDBError("Falha ao salvar usuário", err)
	}
	return user, nil
}
