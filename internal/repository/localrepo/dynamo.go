package localrepo

import (
	"context"
	"errors"
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

// claim é o item da tabela de gerentes: um correo aponta para no máximo um local.
type claim struct {
	Correo  string `dynamodbav:"correo"`
	LocalID string `dynamodbav:"local_id"`
}

// DynamoRepository implementa domain.LocalRepository sobre DynamoDB.
// Com claimsTable vazio não há reivindicação atômica; a unicidade do gerente
// depende só da verificação por scan feita pelo serviço.
type DynamoRepository struct {
	client      dynamo.API
	table       string
	claimsTable string
	timeout     time.Duration
	logger      logger.Logger
}

func NewDynamoRepository(client dynamo.API, table, claimsTable string, timeout time.Duration, log logger.Logger) *DynamoRepository {
	return &DynamoRepository{
		client:      client,
		table:       table,
		claimsTable: claimsTable,
		timeout:     timeout,
		logger:      log,
	}
}

func (r *DynamoRepository) claims() bool { return r.claimsTable != "" }

func localKey(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"local_id": &types.AttributeValueMemberS{Value: id}}
}

func claimKey(correo string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{"correo": &types.AttributeValueMemberS{Value: correo}}
}

// claimCondition aceita reivindicação livre ou já pertencente ao próprio local.
func claimCondition(localID string) (expression.Expression, error) {
	cond := expression.AttributeNotExists(expression.Name("correo")).
		Or(expression.Name("local_id").Equal(expression.Value(localID)))
	return expression.NewBuilder().WithCondition(cond).Build()
}

func (r *DynamoRepository) putClaim(correo, localID string) (types.TransactWriteItem, error) {
	item, err := attributevalue.MarshalMap(claim{Correo: correo, LocalID: localID})
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	expr, err := claimCondition(localID)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Put: &types.Put{
		TableName:                           aws.String(r.claimsTable),
		Item:                                item,
		ConditionExpression:                 expr.Condition(),
		ExpressionAttributeNames:            expr.Names(),
		ExpressionAttributeValues:           expr.Values(),
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}}, nil
}

func (r *DynamoRepository) deleteClaim(correo, localID string) (types.TransactWriteItem, error) {
	expr, err := claimCondition(localID)
	if err != nil {
		return types.TransactWriteItem{}, err
	}
	return types.TransactWriteItem{Delete: &types.Delete{
		TableName:                 aws.String(r.claimsTable),
		Key:                       claimKey(correo),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}}, nil
}

// claimHolder extrai, de uma transação cancelada, o local que já detém o gerente.
func claimHolder(err error, claimIndex int) (string, bool) {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) || claimIndex >= len(tce.CancellationReasons) {
		return "", false
	}
	reason := tce.CancellationReasons[claimIndex]
	if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
		return "", false
	}
	var held claim
	if err := attributevalue.UnmarshalMap(reason.Item, &held); err != nil {
		return "", true
	}
	return held.LocalID, true
}

// Create grava o local; com gerente e tabela de reivindicação, grava ambos na mesma transação.
func (r *DynamoRepository) Create(ctx context.Context, local domain.Local) (domain.Local, error) {
	r.logger.Debug("Iniciando Create no repositório DynamoDB.", map[string]interface{}{"local_id": local.LocalID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	item, err := attributevalue.MarshalMap(local)
	if err != nil {
		return domain.Local{}, apperror.NewInternalError("Falha ao serializar local", err)
	}
	notExists, err := expression.NewBuilder().
		WithCondition(expression.AttributeNotExists(expression.Name("local_id"))).
		Build()
	if err != nil {
		return domain.Local{}, apperror.NewInternalError("Falha ao montar condição", err)
	}

	correo := local.ManagerEmail()
	if !r.claims() || correo == "" {
		_, err = r.client.PutItem(ctxTimeout, &dynamodb.PutItemInput{
			TableName:                aws.String(r.table),
			Item:                     item,
			ConditionExpression:      notExists.Condition(),
			ExpressionAttributeNames: notExists.Names(),
		})
		if err != nil {
			r.logger.Error("Falha ao inserir local no DynamoDB.", err)
			return domain.Local{}, apperror.NewDBError("Falha ao criar local", err)
		}
		r.logger.Info("Local criado com sucesso.", map[string]interface{}{"local_id": local.LocalID})
		return local, nil
	}

	claimPut, err := r.putClaim(correo, local.LocalID)
	if err != nil {
		return domain.Local{}, apperror.NewInternalError("Falha ao montar reivindicação de gerente", err)
	}
	_, err = r.client.TransactWriteItems(ctxTimeout, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.table),
				Item:                     item,
				ConditionExpression:      notExists.Condition(),
				ExpressionAttributeNames: notExists.Names(),
			}},
			claimPut,
		},
	})
	if err != nil {
		if holder, ok := claimHolder(err, 1); ok {
			r.logger.Info("Gerente já reivindicado por outro local.", map[string]interface{}{"correo": correo, "local_id": holder})
			return domain.Local{}, apperror.NewManagerAlreadyAssigned(correo, holder)
		}
		r.logger.Error("Falha na transação de criação de local.", err)
		return domain.Local{}, apperror.NewDBError("Falha ao criar local", err)
	}

	r.logger.Info("Local criado com sucesso.", map[string]interface{}{"local_id": local.LocalID, "gerente": correo})
	return local, nil
}

// FindByID busca um local pela chave.
func (r *DynamoRepository) FindByID(ctx context.Context, id string) (domain.Local, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	out, err := r.client.GetItem(ctxTimeout, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       localKey(id),
	})
	if err != nil {
		r.logger.Error("Falha ao buscar local no DynamoDB.", err)
		return domain.Local{}, apperror.NewDBError("Error al obtener el local", err)
	}
	if out.Item == nil {
		return domain.Local{}, apperror.NewNotFoundError("Local no encontrado")
	}

	var local domain.Local
	if err := attributevalue.UnmarshalMap(out.Item, &local); err != nil {
		return domain.Local{}, apperror.NewInternalError("Falha ao decodificar local", err)
	}
	return local, nil
}

// FindAll percorre todas as páginas do scan.
func (r *DynamoRepository) FindAll(ctx context.Context) ([]domain.Local, error) {
	return r.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(r.table)})
}

// FindByManager faz um scan filtrado por gerente.correo.
func (r *DynamoRepository) FindByManager(ctx context.Context, correo string) ([]domain.Local, error) {
	expr, err := expression.NewBuilder().
		WithFilter(expression.Name("gerente.correo").Equal(expression.Value(correo))).
		Build()
	if err != nil {
		return nil, apperror.NewInternalError("Falha ao montar filtro", err)
	}
	return r.scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(r.table),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (r *DynamoRepository) scan(ctx context.Context, input *dynamodb.ScanInput) ([]domain.Local, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	locales := []domain.Local{}
	paginator := dynamodb.NewScanPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctxTimeout)
		if err != nil {
			r.logger.Error("Falha no scan de locais.", err)
			return nil, apperror.NewDBError("Error al listar los locales", err)
		}
		var batch []domain.Local
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, apperror.NewInternalError("Falha ao decodificar locais", err)
		}
		locales = append(locales, batch...)
	}
	return locales, nil
}

// updateExpression traduz o patch; qualquer alteração de gerente grava o sub-objeto inteiro,
// já que SET gerente.x falha quando o mapa gerente ainda não existe.
func updateExpression(current domain.Local, patch domain.LocalPatch) (expression.Expression, error) {
	var update expression.UpdateBuilder
	for _, u := range patch {
		if u.Path()[0] == "gerente" {
			continue
		}
		update = update.Set(expression.Name(domain.PathKey(u)), expression.Value(u.Value()))
	}
	if patch.TouchesManager() {
		update = update.Set(expression.Name("gerente"), expression.Value(patch.ApplyTo(current).Gerente))
	}
	return expression.NewBuilder().
		WithUpdate(update).
		WithCondition(expression.AttributeExists(expression.Name("local_id"))).
		Build()
}

// Update aplica o patch; se o correo do gerente mudar, move a reivindicação na mesma transação.
func (r *DynamoRepository) Update(ctx context.Context, current domain.Local, patch domain.LocalPatch) (domain.Local, error) {
	r.logger.Debug("Iniciando Update no repositório DynamoDB.", map[string]interface{}{"local_id": current.LocalID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	expr, err := updateExpression(current, patch)
	if err != nil {
		return domain.Local{}, apperror.NewInternalError("Falha ao montar atualização", err)
	}

	oldCorreo := current.ManagerEmail()
	newCorreo, changing := patch.ManagerEmail()
	if !r.claims() || !changing || newCorreo == oldCorreo {
		out, err := r.client.UpdateItem(ctxTimeout, &dynamodb.UpdateItemInput{
			TableName:                 aws.String(r.table),
			Key:                       localKey(current.LocalID),
			UpdateExpression:          expr.Update(),
			ConditionExpression:       expr.Condition(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ReturnValues:              types.ReturnValueAllNew,
		})
		if err != nil {
			return domain.Local{}, r.updateError(err, current.LocalID)
		}
		var updated domain.Local
		if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
			return domain.Local{}, apperror.NewInternalError("Falha ao decodificar local", err)
		}
		return updated, nil
	}

	items := []types.TransactWriteItem{{Update: &types.Update{
		TableName:                 aws.String(r.table),
		Key:                       localKey(current.LocalID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}}}
	claimPut, err := r.putClaim(newCorreo, current.LocalID)
	if err != nil {
		return domain.Local{}, apperror.NewInternalError("Falha ao montar reivindicação de gerente", err)
	}
	items = append(items, claimPut)
	if oldCorreo != "" {
		release, err := r.deleteClaim(oldCorreo, current.LocalID)
		if err != nil {
			return domain.Local{}, apperror.NewInternalError("Falha ao montar liberação de gerente", err)
		}
		items = append(items, release)
	}

	if _, err := r.client.TransactWriteItems(ctxTimeout, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if holder, ok := claimHolder(err, 1); ok {
			return domain.Local{}, apperror.NewManagerAlreadyAssigned(newCorreo, holder)
		}
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 0 &&
			aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
			return domain.Local{}, apperror.NewNotFoundError("Local no encontrado")
		}
		r.logger.Error("Falha na transação de atualização de local.", err)
		return domain.Local{}, apperror.NewDBError("Falha ao atualizar local", err)
	}

	r.logger.Info("Gerente do local transferido.", map[string]interface{}{"local_id": current.LocalID, "de": oldCorreo, "para": newCorreo})
	return patch.ApplyTo(current), nil
}

func (r *DynamoRepository) updateError(err error, id string) error {
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return apperror.NewNotFoundError("Local no encontrado")
	}
	r.logger.Error("Falha ao atualizar local no DynamoDB.", err)
	return apperror.NewDBError("Falha ao atualizar local", err)
}

// Delete remove o local e, se houver, a reivindicação do seu gerente.
func (r *DynamoRepository) Delete(ctx context.Context, local domain.Local) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	exists, err := expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name("local_id"))).
		Build()
	if err != nil {
		return apperror.NewInternalError("Falha ao montar condição", err)
	}

	correo := local.ManagerEmail()
	if !r.claims() || correo == "" {
		_, err := r.client.DeleteItem(ctxTimeout, &dynamodb.DeleteItemInput{
			TableName:                aws.String(r.table),
			Key:                      localKey(local.LocalID),
			ConditionExpression:      exists.Condition(),
			ExpressionAttributeNames: exists.Names(),
		})
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return apperror.NewNotFoundError("Local no encontrado")
		}
		if err != nil {
			r.logger.Error("Falha ao deletar local no DynamoDB.", err)
			return apperror.NewDBError("Falha ao eliminar local", err)
		}
		return nil
	}

	release, err := r.deleteClaim(correo, local.LocalID)
	if err != nil {
		return apperror.NewInternalError("Falha ao montar liberação de gerente", err)
	}
	_, err = r.client.TransactWriteItems(ctxTimeout, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:                aws.String(r.table),
				Key:                      localKey(local.LocalID),
				ConditionExpression:      exists.Condition(),
				ExpressionAttributeNames: exists.Names(),
			}},
			release,
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) && len(tce.CancellationReasons) > 0 &&
			aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
			return apperror.NewNotFoundError("Local no encontrado")
		}
		r.logger.Error("Falha na transação de exclusão de local.", err)
		return apperror.NewDBError("Falha ao eliminar local", err)
	}
	return nil
}
