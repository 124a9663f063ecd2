package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	beerServiceName = "brewery.v1.BeerService"
	jsonCodecName   = "json"
)

// jsonCodec lets the beer service exchange plain Go structs, sent with
// the application/grpc+json content type.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type GetBeerRequest struct {
	ID string `json:"id"`
}

type SaveNewBeerRequest struct {
	Beer BeerDto `json:"beer"`
}

type UpdateBeerRequest struct {
	ID   string  `json:"id"`
	Beer BeerDto `json:"beer"`
}

type Empty struct{}

type BeerServiceServer interface {
	GetBeer(context.Context, *GetBeerRequest) (*BeerDto, error)
	SaveNewBeer(context.Context, *SaveNewBeerRequest) (*BeerDto, error)
	UpdateBeer(context.Context, *UpdateBeerRequest) (*Empty, error)
}

func RegisterBeerServiceServer(s grpc.ServiceRegistrar, srv BeerServiceServer) {
	s.RegisterService(&beerServiceDesc, srv)
}

var beerServiceDesc = grpc.ServiceDesc{
	ServiceName: beerServiceName,
	HandlerType: (*BeerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetBeer",
			Handler:    unaryHandler("GetBeer", BeerServiceServer.GetBeer),
		},
		{
			MethodName: "SaveNewBeer",
			Handler:    unaryHandler("SaveNewBeer", BeerServiceServer.SaveNewBeer),
		},
		{
			MethodName: "UpdateBeer",
			Handler:    unaryHandler("UpdateBeer", BeerServiceServer.UpdateBeer),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "brewery/v1/beer",
}

func unaryHandler[Req, Resp any](method string, call func(BeerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + beerServiceName + "/" + method

	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BeerServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BeerServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BeerServiceClient calls the beer service over any gRPC connection.
type BeerServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBeerServiceClient(cc grpc.ClientConnInterface) *BeerServiceClient {
	return &BeerServiceClient{cc: cc}
}

func (c *BeerServiceClient) GetBeer(ctx context.Context, in *GetBeerRequest, opts ...grpc.CallOption) (*BeerDto, error) {
	out := new(BeerDto)
	if err := c.invoke(ctx, "GetBeer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BeerServiceClient) SaveNewBeer(ctx context.Context, in *SaveNewBeerRequest, opts ...grpc.CallOption) (*BeerDto, error) {
	out := new(BeerDto)
	if err := c.invoke(ctx, "SaveNewBeer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BeerServiceClient) UpdateBeer(ctx context.Context, in *UpdateBeerRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, "UpdateBeer", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BeerServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+beerServiceName+"/"+method, in, out, opts...)
}
